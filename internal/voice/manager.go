package voice

import (
	"context"
	"strconv"
	"sync"
	"time"

	"nayidisha/internal/models"
	"nayidisha/internal/summary"
)

// briefLimit caps the financial summary passed to the assistant so the
// call prompt stays small.
const briefLimit = 300

// Manager holds one Controller per user and builds the call context
// (assistant variables and metadata) from the user's financial data.
type Manager struct {
	assistantID string
	newClient   func() Client

	mu       sync.Mutex
	sessions map[string]*Controller
}

// NewManager creates a Manager that dials the provider at baseURL with the
// given public key for every new call.
func NewManager(baseURL, publicKey, assistantID string) *Manager {
	return &Manager{
		assistantID: assistantID,
		newClient:   func() Client { return NewWebsocketClient(baseURL, publicKey) },
		sessions:    make(map[string]*Controller),
	}
}

// NewManagerWithClient creates a Manager with a custom client factory.
func NewManagerWithClient(assistantID string, newClient func() Client) *Manager {
	return &Manager{
		assistantID: assistantID,
		newClient:   newClient,
		sessions:    make(map[string]*Controller),
	}
}

// StartSession begins a voice call for the user, seeding the assistant with
// their name and a short financial summary. Starting while a session is
// already running is a no-op.
func (m *Manager) StartSession(ctx context.Context, user *models.User, transactions []models.Transaction, goals []models.Goal) error {
	controller := m.controller(user.ID)

	userName := user.DisplayName
	if userName == "" {
		userName = "there"
	}

	opts := StartOptions{
		AssistantID: m.assistantID,
		VariableValues: map[string]string{
			"userName":         userName,
			"financialSummary": summary.Brief(goals, transactions, briefLimit),
		},
		Metadata: map[string]string{
			"userId":    user.ID,
			"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		},
	}
	return controller.Start(ctx, opts)
}

// StopSession ends the user's call if one is running.
func (m *Manager) StopSession(userID string) {
	m.mu.Lock()
	controller, ok := m.sessions[userID]
	m.mu.Unlock()
	if ok {
		controller.Stop()
	}
}

// SetMuted toggles the microphone on the user's active call.
func (m *Manager) SetMuted(userID string, muted bool) error {
	m.mu.Lock()
	controller, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return controller.SetMuted(muted)
}

// SessionStatus reports the state of the user's session.
func (m *Manager) SessionStatus(userID string) Status {
	m.mu.Lock()
	controller, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Status{State: StateIdle}
	}
	return controller.Status()
}

// Shutdown force-stops every running session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	controllers := make([]*Controller, 0, len(m.sessions))
	for _, c := range m.sessions {
		controllers = append(controllers, c)
	}
	m.mu.Unlock()

	for _, c := range controllers {
		c.Stop()
	}
}

func (m *Manager) controller(userID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	controller, ok := m.sessions[userID]
	if !ok {
		controller = NewController(m.newClient)
		m.sessions[userID] = controller
	}
	return controller
}
