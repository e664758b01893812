package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nayidisha/internal/errors"
	"nayidisha/internal/services"
	"nayidisha/internal/voice"
)

// VoiceHandler manages the user's realtime voice assistant session.
type VoiceHandler struct {
	manager            *voice.Manager
	userService        services.UserServicer
	transactionService services.TransactionServicer
	goalService        services.GoalServicer
}

// NewVoiceHandler creates a new VoiceHandler. A nil manager means the voice
// provider is not configured; every endpoint then returns 503.
func NewVoiceHandler(manager *voice.Manager, userService services.UserServicer, transactionService services.TransactionServicer, goalService services.GoalServicer) *VoiceHandler {
	return &VoiceHandler{
		manager:            manager,
		userService:        userService,
		transactionService: transactionService,
		goalService:        goalService,
	}
}

// MuteRequest represents the mute toggle payload
type MuteRequest struct {
	Muted bool `json:"muted"`
}

// GetSession returns the state of the user's voice session
// @Summary     Get voice session status
// @Description Get the state of the authenticated user's voice assistant session
// @Tags        voice
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} voice.Status "Session status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Voice assistant not configured"
// @Router      /voice/session [get]
func (h *VoiceHandler) GetSession(c *gin.Context) {
	userID, err := h.checkSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": h.manager.SessionStatus(userID)})
}

// StartSession begins a voice assistant call
// @Summary     Start voice session
// @Description Start a voice assistant call seeded with the user's financial summary
// @Tags        voice
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} voice.Status "Session status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Provider connection failed"
// @Failure     503 {object} ErrorResponse "Voice assistant not configured"
// @Router      /voice/session [post]
func (h *VoiceHandler) StartSession(c *gin.Context) {
	userID, err := h.checkSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, goals, err := fetchUserData(h.transactionService, h.goalService, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.manager.StartSession(c.Request.Context(), user, transactions, goals); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrVoiceSessionFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": h.manager.SessionStatus(userID)})
}

// StopSession ends the user's voice call
// @Summary     Stop voice session
// @Description End the authenticated user's voice assistant call
// @Tags        voice
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} voice.Status "Session status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Voice assistant not configured"
// @Router      /voice/session [delete]
func (h *VoiceHandler) StopSession(c *gin.Context) {
	userID, err := h.checkSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.manager.StopSession(userID)
	c.JSON(http.StatusOK, gin.H{"session": h.manager.SessionStatus(userID)})
}

// SetMuted toggles the microphone on the user's active call
// @Summary     Mute or unmute
// @Description Toggle the microphone on the user's active voice call
// @Tags        voice
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MuteRequest true "Mute state"
// @Success     200 {object} voice.Status "Session status"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Voice assistant not configured"
// @Router      /voice/session/mute [post]
func (h *VoiceHandler) SetMuted(c *gin.Context) {
	userID, err := h.checkSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.manager.SetMuted(userID, req.Muted); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrVoiceSessionFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": h.manager.SessionStatus(userID)})
}

func (h *VoiceHandler) checkSession(c *gin.Context) (string, error) {
	userID, err := getUserID(c)
	if err != nil {
		return "", err
	}
	if h.manager == nil {
		return "", apperrors.ErrVoiceUnavailable
	}
	return userID, nil
}
