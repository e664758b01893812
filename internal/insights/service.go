// Package insights produces a markdown narrative of a user's financial
// state, primarily through a generative-AI call with a deterministic local
// fallback. This package is the error boundary of the insights feature:
// Generate never fails except when a generation is already in flight.
package insights

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nayidisha/internal/errors"
	"nayidisha/internal/gemini"
	"nayidisha/internal/logger"
	"nayidisha/internal/models"
	"nayidisha/internal/summary"
)

// Result sources.
const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// Summary labels kept for backward compatibility with the dashboard client.
const (
	summaryGenerated = "Financial insights generated successfully"
	summaryFallback  = "Financial insights generated locally"
	summaryNoData    = "Not enough data to generate insights yet. Start by adding transactions and goals."
)

const (
	generateTemperature = 0.7
	generateMaxTokens   = 2048
	persistTimeout      = 10 * time.Second
)

// Result is a generated insight report.
type Result struct {
	MarkdownContent string `json:"markdownContent"`
	Summary         string `json:"summary,omitempty"`
	Source          string `json:"-"`
}

// Service generates and caches insight reports.
type Service struct {
	db        *gorm.DB
	generator gemini.TextGenerator
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
	writes   sync.WaitGroup
}

// NewService creates a new insights Service. The generator may be nil when
// no API credentials are configured; generation then always uses the
// deterministic fallback.
func NewService(db *gorm.DB, generator gemini.TextGenerator) *Service {
	return &Service{
		db:        db,
		generator: generator,
		now:       time.Now,
		inflight:  make(map[string]struct{}),
	}
}

// Generate produces an insight report for the user's transactions and goals.
// A second call for the same user while one is running is rejected with
// INSIGHTS_BUSY rather than racing two writes to the same cache key.
func (s *Service) Generate(ctx context.Context, userID string, transactions []models.Transaction, goals []models.Goal) (*Result, error) {
	if err := s.acquire(userID); err != nil {
		return nil, err
	}
	defer s.release(userID)

	// First-time state: nothing to analyze, no model call.
	if len(transactions) == 0 && len(goals) == 0 {
		return &Result{
			MarkdownContent: noDataMarkdown,
			Summary:         summaryNoData,
			Source:          SourceNone,
		}, nil
	}

	result := s.generate(ctx, userID, transactions, goals)
	s.persist(userID, result, len(transactions), len(goals))
	return result, nil
}

func (s *Service) generate(ctx context.Context, userID string, transactions []models.Transaction, goals []models.Goal) *Result {
	log := logger.Get()

	if s.generator != nil {
		prompt := buildPrompt(s.now(), transactions, goals)
		text, err := s.generator.GenerateText(ctx, prompt, gemini.GenerateOptions{
			Temperature:     generateTemperature,
			MaxOutputTokens: generateMaxTokens,
		})
		if err == nil {
			log.Infow("generated insights",
				"user_id", userID,
				"content_length", len(text),
			)
			return &Result{MarkdownContent: text, Summary: summaryGenerated, Source: SourceGemini}
		}
		log.Warnw("insight generation failed, using local fallback",
			"user_id", userID,
			"error", err.Error(),
		)
	} else {
		log.Warnw("no generator configured, using local fallback", "user_id", userID)
	}

	agg := summary.ComputeAt(s.now(), transactions, goals)
	return &Result{
		MarkdownContent: renderFallback(agg),
		Summary:         summaryFallback,
		Source:          SourceFallback,
	}
}

// persist upserts the cached report off the request path. Failures are
// logged and never reach the caller, whose in-memory result stands.
func (s *Service) persist(userID string, result *Result, transactionCount, goalCount int) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		report := &models.InsightReport{
			UserID:           userID,
			Content:          result.MarkdownContent,
			Source:           result.Source,
			TransactionCount: transactionCount,
			GoalCount:        goalCount,
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "source", "transaction_count", "goal_count", "updated_at"}),
		}).Create(report).Error
		if err != nil {
			logger.Get().Warnw("failed to cache insight report",
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}()
}

// Flush blocks until all pending cache writes have finished. Used on
// shutdown and in tests.
func (s *Service) Flush() {
	s.writes.Wait()
}

// Cached returns the user's cached report, or nil when none exists yet.
func (s *Service) Cached(userID string) (*models.InsightReport, error) {
	var report models.InsightReport
	if err := s.db.Where("user_id = ?", userID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &report, nil
}

func (s *Service) acquire(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return apperrors.ErrInsightsBusy
	}
	s.inflight[userID] = struct{}{}
	return nil
}

func (s *Service) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}
