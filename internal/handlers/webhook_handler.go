package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"nayidisha/internal/extraction"
	"nayidisha/internal/logger"
	"nayidisha/internal/models"
	"nayidisha/internal/services"
)

// Spoken replies for the assistant. The provider reads response.text back
// to the user verbatim, so every outcome needs a full sentence.
const (
	replyNoTranscript  = "I didn't catch what you said. Could you please repeat?"
	replyNoTransaction = "I couldn't identify a financial transaction in what you said. You can try saying something like 'I spent $45 on groceries yesterday' or 'I earned $1000 from my part-time job'."
	replyUnparseable   = "I had trouble processing your request. Could you try again with clearer financial details?"
	replyAnonymous     = "I understand you're talking about a financial transaction, but you need to be logged in to save it."
	replySaveFailed    = "I processed your transaction but couldn't save it. Please try again later."
)

// WebhookHandler processes transcript callbacks from the voice provider.
// The provider treats any non-200 as a delivery failure and retries, so
// every handled outcome answers 200 with a spoken reply; only a malformed
// body gets a 500.
type WebhookHandler struct {
	extractionService  *extraction.Service
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(extractionService *extraction.Service, transactionService services.TransactionServicer, auditService services.AuditServicer) *WebhookHandler {
	return &WebhookHandler{
		extractionService:  extractionService,
		transactionService: transactionService,
		auditService:       auditService,
	}
}

// VoiceWebhookRequest represents the provider's transcript callback payload
type VoiceWebhookRequest struct {
	Transcript string `json:"transcript"`
	Metadata   struct {
		UserID string `json:"userId"`
	} `json:"metadata"`
}

// VoiceWebhookResponse represents the reply spoken back to the user
type VoiceWebhookResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Response struct {
		Text string `json:"text"`
	} `json:"response"`
}

func webhookReply(c *gin.Context, status, message, text string) {
	var resp VoiceWebhookResponse
	resp.Status = status
	resp.Message = message
	resp.Response.Text = text
	c.JSON(http.StatusOK, resp)
}

// HandleVoiceTranscript extracts and saves a transaction from a transcript
// @Summary     Voice transcript webhook
// @Description Receive a speech transcript, extract a transaction, and save it
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       request body VoiceWebhookRequest true "Transcript payload"
// @Success     200 {object} VoiceWebhookResponse "Spoken reply"
// @Failure     500 {object} ErrorResponse "Malformed payload"
// @Router      /webhooks/voice [post]
func (h *WebhookHandler) HandleVoiceTranscript(c *gin.Context) {
	var req VoiceWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Errorw("voice webhook: malformed payload", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Could not read webhook payload",
			},
		})
		return
	}

	parsed, err := h.extractionService.Parse(c.Request.Context(), req.Transcript)
	if err != nil {
		switch {
		case errors.Is(err, extraction.ErrNoTranscript):
			webhookReply(c, "error", "No transcript provided", replyNoTranscript)
		case errors.Is(err, extraction.ErrNoTransactionFound):
			webhookReply(c, "success", "No transaction found", replyNoTransaction)
		default:
			logger.Get().Warnw("voice webhook: extraction failed", "error", err.Error())
			webhookReply(c, "success", "Could not process transcript", replyUnparseable)
		}
		return
	}

	txType, amount, ok := validParsedTransaction(parsed)
	if !ok {
		webhookReply(c, "success", "Incomplete transaction details", replyUnparseable)
		return
	}

	if req.Metadata.UserID == "" {
		webhookReply(c, "success", "User not authenticated", replyAnonymous)
		return
	}

	category := defaultCategory(txType)
	if parsed.Category != nil && *parsed.Category != "" {
		category = *parsed.Category
	}
	description := ""
	if parsed.Description != nil {
		description = *parsed.Description
	}
	date := time.Now()
	if parsed.Date != nil {
		if d, err := time.Parse("2006-01-02", *parsed.Date); err == nil {
			date = d
		}
	}

	transaction, err := h.transactionService.CreateTransaction(req.Metadata.UserID, txType, category, description, amount, date)
	if err != nil {
		logger.Get().Errorw("voice webhook: failed to save transaction",
			"user_id", req.Metadata.UserID,
			"error", err.Error(),
		)
		webhookReply(c, "error", "Failed to save transaction", replySaveFailed)
		return
	}

	h.auditService.Log(req.Metadata.UserID, "VOICE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"type":     transaction.Type,
		"category": transaction.Category,
		"amount":   transaction.Amount.String(),
	})

	webhookReply(c, "success", "Transaction recorded", confirmationText(transaction))
}

// validParsedTransaction checks the model output has a usable type and a
// positive amount.
func validParsedTransaction(parsed *extraction.ParsedTransaction) (models.TransactionType, decimal.Decimal, bool) {
	if parsed.Type == nil || parsed.Amount == nil || *parsed.Amount <= 0 {
		return "", decimal.Zero, false
	}
	txType := models.TransactionType(*parsed.Type)
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return "", decimal.Zero, false
	}
	return txType, decimal.NewFromFloat(*parsed.Amount), true
}

func defaultCategory(txType models.TransactionType) string {
	if txType == models.TransactionTypeIncome {
		return "Other Income"
	}
	return "Other Expenses"
}

func confirmationText(tx *models.Transaction) string {
	if tx.Type == models.TransactionTypeIncome {
		return fmt.Sprintf("Great! I've recorded your income of %s for %s.", tx.Amount, tx.Description)
	}
	return fmt.Sprintf("I've recorded your expense of %s for %s: %s.", tx.Amount, tx.Category, tx.Description)
}
