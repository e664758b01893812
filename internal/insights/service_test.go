package insights

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"nayidisha/internal/gemini"
	"nayidisha/internal/models"
	"nayidisha/internal/testutil"

	"github.com/shopspring/decimal"
)

// fakeGenerator returns a canned response or error and counts calls. When
// blockCh is set, GenerateText signals startedCh and then waits on blockCh.
type fakeGenerator struct {
	response  string
	err       error
	blockCh   chan struct{}
	startedCh chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ string, _ gemini.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.blockCh != nil {
		f.startedCh <- struct{}{}
		<-f.blockCh
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleData(userID string) ([]models.Transaction, []models.Goal) {
	transactions := []models.Transaction{
		{
			UserID:   userID,
			Type:     models.TransactionTypeIncome,
			Category: "Salary",
			Amount:   decimal.NewFromInt(50000),
			Date:     time.Now(),
		},
		{
			UserID:   userID,
			Type:     models.TransactionTypeExpense,
			Category: "Food",
			Amount:   decimal.NewFromInt(6000),
			Date:     time.Now(),
		},
	}
	goals := []models.Goal{
		{
			UserID:       userID,
			Name:         "Emergency Fund",
			TargetAmount: decimal.NewFromInt(100000),
			TargetDate:   time.Now().AddDate(1, 0, 0),
		},
	}
	return transactions, goals
}

func TestGenerate(t *testing.T) {
	t.Run("no_data_skips_model_and_cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := &fakeGenerator{response: "# report"}
		svc := NewService(db, gen)

		result, err := svc.Generate(context.Background(), "user-1", nil, nil)
		testutil.AssertNoError(t, err)
		svc.Flush()

		if result.Source != SourceNone {
			t.Errorf("expected source %q, got %q", SourceNone, result.Source)
		}
		if !strings.Contains(result.MarkdownContent, "No Data Available Yet") {
			t.Errorf("expected no-data markdown, got %q", result.MarkdownContent)
		}
		if gen.callCount() != 0 {
			t.Errorf("expected no model calls, got %d", gen.callCount())
		}
		cached, err := svc.Cached("user-1")
		testutil.AssertNoError(t, err)
		if cached != nil {
			t.Error("no-data result should not be cached")
		}
	})

	t.Run("model_success_is_cached", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := &fakeGenerator{response: "# Financial Health Report\n\nAll good."}
		svc := NewService(db, gen)

		user := testutil.CreateTestUser(t, db)
		transactions, goals := sampleData(user.ID)

		result, err := svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertNoError(t, err)
		svc.Flush()

		if result.Source != SourceGemini {
			t.Errorf("expected source %q, got %q", SourceGemini, result.Source)
		}
		if result.Summary != summaryGenerated {
			t.Errorf("unexpected summary %q", result.Summary)
		}

		cached, err := svc.Cached(user.ID)
		testutil.AssertNoError(t, err)
		if cached == nil {
			t.Fatal("expected cached report")
		}
		if cached.Content != result.MarkdownContent {
			t.Error("cached content should match the returned report")
		}
		if cached.TransactionCount != 2 || cached.GoalCount != 1 {
			t.Errorf("expected counts 2/1, got %d/%d", cached.TransactionCount, cached.GoalCount)
		}
	})

	t.Run("regeneration_overwrites_cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := &fakeGenerator{response: "first"}
		svc := NewService(db, gen)

		user := testutil.CreateTestUser(t, db)
		transactions, goals := sampleData(user.ID)

		_, err := svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertNoError(t, err)
		svc.Flush()

		gen.response = "second"
		_, err = svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertNoError(t, err)
		svc.Flush()

		cached, err := svc.Cached(user.ID)
		testutil.AssertNoError(t, err)
		if cached == nil || cached.Content != "second" {
			t.Fatalf("expected cache overwritten with second report, got %+v", cached)
		}

		var count int64
		if err := db.Model(&models.InsightReport{}).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single cached row per user, got %d", count)
		}
	})

	t.Run("model_failure_falls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := &fakeGenerator{err: errors.New("quota exceeded")}
		svc := NewService(db, gen)

		user := testutil.CreateTestUser(t, db)
		transactions, goals := sampleData(user.ID)

		result, err := svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertNoError(t, err)
		svc.Flush()

		if result.Source != SourceFallback {
			t.Errorf("expected source %q, got %q", SourceFallback, result.Source)
		}
		if result.Summary != summaryFallback {
			t.Errorf("unexpected summary %q", result.Summary)
		}
		if !strings.Contains(result.MarkdownContent, "Financial Insights Summary") {
			t.Errorf("expected fallback markdown, got %q", result.MarkdownContent)
		}
	})

	t.Run("nil_generator_falls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewService(db, nil)

		user := testutil.CreateTestUser(t, db)
		transactions, goals := sampleData(user.ID)

		result, err := svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertNoError(t, err)
		svc.Flush()

		if result.Source != SourceFallback {
			t.Errorf("expected source %q, got %q", SourceFallback, result.Source)
		}
	})

	t.Run("concurrent_generation_is_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := &fakeGenerator{
			response:  "# report",
			blockCh:   make(chan struct{}),
			startedCh: make(chan struct{}),
		}
		svc := NewService(db, gen)

		user := testutil.CreateTestUser(t, db)
		transactions, goals := sampleData(user.ID)

		done := make(chan error, 1)
		go func() {
			_, err := svc.Generate(context.Background(), user.ID, transactions, goals)
			done <- err
		}()
		<-gen.startedCh

		_, err := svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertAppError(t, err, "INSIGHTS_BUSY")

		close(gen.blockCh)
		testutil.AssertNoError(t, <-done)
		svc.Flush()

		// A fresh call after completion succeeds again. The blocking phase
		// is over; clear blockCh so GenerateText no longer signals startedCh,
		// which has no receiver here.
		gen.blockCh = nil
		_, err = svc.Generate(context.Background(), user.ID, transactions, goals)
		testutil.AssertNoError(t, err)
		svc.Flush()
	})
}

func TestBuildPrompt(t *testing.T) {
	now := time.Date(2025, time.April, 24, 12, 0, 0, 0, time.UTC)
	transactions, goals := sampleData("user-1")

	prompt := buildPrompt(now, transactions, goals)
	if !strings.Contains(prompt, "# Financial Health Report - April 24, 2025") {
		t.Error("prompt missing dated report header")
	}
	if !strings.Contains(prompt, "Emergency Fund") {
		t.Error("prompt missing goal data")
	}
	for _, section := range []string{"Summary Overview", "Spending Patterns", "Goal Progress Analysis", "Monthly Budget Recommendations", "Areas of Improvement", "Action Steps"} {
		if !strings.Contains(prompt, section) {
			t.Errorf("prompt missing section %q", section)
		}
	}
}
