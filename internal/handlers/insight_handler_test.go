package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"nayidisha/internal/gemini"
	"nayidisha/internal/insights"
	"nayidisha/internal/models"
	"nayidisha/internal/testutil"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) GenerateText(_ context.Context, _ string, _ gemini.GenerateOptions) (string, error) {
	return s.response, s.err
}

func setupInsightRouter(handler *InsightHandler) *gin.Engine {
	r := gin.New()
	r.GET("/insights", injectUserID("user-1"), handler.GetInsights)
	return r
}

func TestInsightHandler_GetInsights(t *testing.T) {
	t.Run("returns generated report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		insightSvc := insights.NewService(db, &stubGenerator{response: "# Financial Health Report\n\nLooking good."})
		defer insightSvc.Flush()

		txSvc := &mockTransactionService{
			getAllUserTransactionsFn: func(userID string) ([]models.Transaction, error) {
				return []models.Transaction{
					{UserID: userID, Type: models.TransactionTypeIncome, Category: "Salary", Amount: decimal.NewFromInt(50000), Date: time.Now()},
				}, nil
			},
		}
		handler := NewInsightHandler(txSvc, &mockGoalService{}, insightSvc)
		r := setupInsightRouter(handler)

		rec := doRequest(r, "GET", "/insights", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		report := result["insights"].(map[string]interface{})
		if report["markdownContent"] != "# Financial Health Report\n\nLooking good." {
			t.Errorf("unexpected markdown content: %v", report["markdownContent"])
		}
		if report["summary"] == nil || report["summary"] == "" {
			t.Error("expected a summary label")
		}
	})

	t.Run("no data returns starter report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		insightSvc := insights.NewService(db, &stubGenerator{response: "unused"})
		defer insightSvc.Flush()

		handler := NewInsightHandler(&mockTransactionService{}, &mockGoalService{}, insightSvc)
		r := setupInsightRouter(handler)

		rec := doRequest(r, "GET", "/insights", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		report := result["insights"].(map[string]interface{})
		content := report["markdownContent"].(string)
		if content == "" {
			t.Error("expected non-empty starter markdown")
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		insightSvc := insights.NewService(db, nil)

		handler := NewInsightHandler(&mockTransactionService{}, &mockGoalService{}, insightSvc)
		r := gin.New()
		r.GET("/insights", handler.GetInsights)

		rec := doRequest(r, "GET", "/insights", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
