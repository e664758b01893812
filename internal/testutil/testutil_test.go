package testutil_test

import (
	"testing"

	"nayidisha/internal/errors"
	"nayidisha/internal/models"
	"nayidisha/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "transactions", "goals", "insight_reports", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 1000)
	if !tx.Amount.Equal(tx.Amount.Truncate(0)) || tx.Amount.IntPart() != 1000 {
		t.Errorf("expected amount 1000, got %s", tx.Amount)
	}
	if tx.Type != models.TransactionTypeIncome {
		t.Errorf("expected income transaction, got %s", tx.Type)
	}

	goal := testutil.CreateTestGoal(t, db, user.ID, 50000)
	if goal.TargetAmount.IntPart() != 50000 {
		t.Errorf("expected target 50000, got %s", goal.TargetAmount)
	}
	if !goal.CurrentAmount.IsZero() {
		t.Errorf("expected zero current amount, got %s", goal.CurrentAmount)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrGoalNotFound, "custom message")
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
