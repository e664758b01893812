package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "nayidisha/internal/errors"
	"nayidisha/internal/insights"
	"nayidisha/internal/models"
	"nayidisha/internal/testutil"
)

func setupDashboardRouter(handler *DashboardHandler) *gin.Engine {
	r := gin.New()
	r.GET("/dashboard", injectUserID("user-1"), handler.GetDashboard)
	return r
}

func dashboardInsightService(t *testing.T) (*insights.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return insights.NewService(db, nil), db
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	t.Run("returns aggregated summary", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getAllUserTransactionsFn: func(userID string) ([]models.Transaction, error) {
				return []models.Transaction{
					{UserID: userID, Type: models.TransactionTypeIncome, Category: "Salary", Amount: decimal.NewFromInt(50000), Date: time.Now()},
					{UserID: userID, Type: models.TransactionTypeExpense, Category: "Food", Amount: decimal.NewFromInt(6000), Date: time.Now()},
				}, nil
			},
		}
		goalSvc := &mockGoalService{
			getUserGoalsFn: func(userID string) ([]models.Goal, error) {
				return []models.Goal{
					{UserID: userID, Name: "Emergency Fund", TargetAmount: decimal.NewFromInt(100000), TargetDate: time.Now().AddDate(1, 0, 0)},
				}, nil
			},
		}
		insightSvc, _ := dashboardInsightService(t)
		handler := NewDashboardHandler(txSvc, goalSvc, insightSvc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		sum := result["summary"].(map[string]interface{})
		if sum["total_income"] != "50000" {
			t.Errorf("expected total income 50000, got %v", sum["total_income"])
		}
		if sum["total_expenses"] != "6000" {
			t.Errorf("expected total expenses 6000, got %v", sum["total_expenses"])
		}
		goals := sum["goals"].([]interface{})
		if len(goals) != 1 {
			t.Errorf("expected 1 goal in summary, got %d", len(goals))
		}
		if _, ok := result["insights"]; ok {
			t.Error("expected no insights key before a report is generated")
		}
	})

	t.Run("includes cached insight report", func(t *testing.T) {
		insightSvc, db := dashboardInsightService(t)
		report := &models.InsightReport{
			UserID:  "user-1",
			Content: "## Financial Insights Summary",
			Source:  insights.SourceFallback,
		}
		if err := db.Create(report).Error; err != nil {
			t.Fatalf("failed to seed report: %v", err)
		}

		handler := NewDashboardHandler(&mockTransactionService{}, &mockGoalService{}, insightSvc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		cached, ok := result["insights"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected cached insights in response, got %v", result["insights"])
		}
		if cached["content"] != "## Financial Insights Summary" {
			t.Errorf("unexpected cached content: %v", cached["content"])
		}
	})

	t.Run("propagates service errors", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getAllUserTransactionsFn: func(_ string) ([]models.Transaction, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		insightSvc, _ := dashboardInsightService(t)
		handler := NewDashboardHandler(txSvc, &mockGoalService{}, insightSvc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		insightSvc, _ := dashboardInsightService(t)
		handler := NewDashboardHandler(&mockTransactionService{}, &mockGoalService{}, insightSvc)
		r := gin.New()
		r.GET("/dashboard", handler.GetDashboard)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
