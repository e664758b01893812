package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"nayidisha/internal/insights"
	"nayidisha/internal/logger"
	"nayidisha/internal/models"
	"nayidisha/internal/services"
	"nayidisha/internal/summary"
)

// DashboardHandler serves the aggregated dashboard view.
type DashboardHandler struct {
	transactionService services.TransactionServicer
	goalService        services.GoalServicer
	insightService     *insights.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(transactionService services.TransactionServicer, goalService services.GoalServicer, insightService *insights.Service) *DashboardHandler {
	return &DashboardHandler{
		transactionService: transactionService,
		goalService:        goalService,
		insightService:     insightService,
	}
}

// fetchUserData loads the user's transactions and goals concurrently.
func fetchUserData(transactionService services.TransactionServicer, goalService services.GoalServicer, userID string) ([]models.Transaction, []models.Goal, error) {
	var (
		wg           sync.WaitGroup
		transactions []models.Transaction
		goals        []models.Goal
		txErr        error
		goalErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		transactions, txErr = transactionService.GetAllUserTransactions(userID)
	}()
	go func() {
		defer wg.Done()
		goals, goalErr = goalService.GetUserGoals(userID)
	}()
	wg.Wait()

	if txErr != nil {
		return nil, nil, txErr
	}
	if goalErr != nil {
		return nil, nil, goalErr
	}
	return transactions, goals, nil
}

// GetDashboard returns the user's financial summary along with the cached
// insight report when one has been generated.
// @Summary     Get dashboard
// @Description Get aggregated totals, category breakdown, goal progress, and the cached insight report
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} summary.Summary "Financial summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, goals, err := fetchUserData(h.transactionService, h.goalService, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response := gin.H{"summary": summary.Compute(transactions, goals)}

	// The cached report is decoration; a failed lookup never fails the page.
	report, err := h.insightService.Cached(userID)
	if err != nil {
		logger.Get().Warnw("failed to load cached insight report",
			"user_id", userID,
			"error", err.Error(),
		)
	} else if report != nil {
		response["insights"] = report
	}

	c.JSON(http.StatusOK, response)
}
