package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"nayidisha/internal/extraction"
	"nayidisha/internal/handlers"
	"nayidisha/internal/insights"
	"nayidisha/internal/services"
	"nayidisha/internal/testutil"
)

// setupTestRouter assembles the router the same way run() does, backed by
// an in-memory database.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	goalService := services.NewGoalService(db)
	auditService := services.NewAuditService(db)
	insightService := insights.NewService(db, nil)
	t.Cleanup(insightService.Flush)
	extractionService := extraction.NewService(nil)

	return newRouter(routerDeps{
		auth:         handlers.NewAuthHandler(userService, auditService),
		transactions: handlers.NewTransactionHandler(transactionService, auditService),
		goals:        handlers.NewGoalHandler(goalService, auditService),
		categories:   handlers.NewCategoryHandler(),
		dashboard:    handlers.NewDashboardHandler(transactionService, goalService, insightService),
		insights:     handlers.NewInsightHandler(transactionService, goalService, insightService),
		voice:        handlers.NewVoiceHandler(nil, userService, transactionService, goalService),
		webhook:      handlers.NewWebhookHandler(extractionService, transactionService, auditService),
	})
}

func serve(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerTestUser(t *testing.T, r *gin.Engine) string {
	t.Helper()
	body := `{"email":"router@example.com","password":"password123","display_name":"Router Test"}`
	rec := serve(r, "POST", "/api/v1/auth/register", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("registration failed with %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse registration response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the registration response")
	}
	return resp.Token
}

// The transaction request types carry the custom transaction_type binding
// tag, so the assembled router must have it registered or every create and
// list request blows up inside binding.
func TestRouterTransactionValidation(t *testing.T) {
	router := setupTestRouter(t)
	token := registerTestUser(t, router)

	t.Run("valid_transaction_is_created", func(t *testing.T) {
		body := `{"type":"expense","category":"Food","description":"Lunch","amount":"250"}`
		rec := serve(router, "POST", "/api/v1/transactions", token, body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("invalid_type_is_rejected_with_400", func(t *testing.T) {
		body := `{"type":"transfer","category":"Food","amount":"250"}`
		rec := serve(router, "POST", "/api/v1/transactions", token, body)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("type_filter_on_listing_is_bound", func(t *testing.T) {
		rec := serve(router, "GET", "/api/v1/transactions?type=expense", token, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("protected_route_requires_token", func(t *testing.T) {
		rec := serve(router, "GET", "/api/v1/transactions", "", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
