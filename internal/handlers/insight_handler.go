package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nayidisha/internal/insights"
	"nayidisha/internal/services"
)

// InsightHandler serves AI-generated financial insight reports.
type InsightHandler struct {
	transactionService services.TransactionServicer
	goalService        services.GoalServicer
	insightService     *insights.Service
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(transactionService services.TransactionServicer, goalService services.GoalServicer, insightService *insights.Service) *InsightHandler {
	return &InsightHandler{
		transactionService: transactionService,
		goalService:        goalService,
		insightService:     insightService,
	}
}

// GetInsights generates a fresh insight report for the user
// @Summary     Get financial insights
// @Description Generate a markdown insight report from the user's transactions and goals
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} insights.Result "Insight report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Generation already in progress"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights [get]
func (h *InsightHandler) GetInsights(c *gin.Context) {
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

	result, err := h.insightService.Generate(c.Request.Context(), userID, transactions, goals)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": result})
}
