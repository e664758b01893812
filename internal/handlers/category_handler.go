package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nayidisha/internal/models"
)

// CategoryHandler serves the recommended category sets.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// ListCategories returns the recommended income and expense categories
// @Summary     List categories
// @Description Get the recommended income and expense category names
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Category names by type"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"income":  models.IncomeCategories,
		"expense": models.ExpenseCategories,
	})
}
