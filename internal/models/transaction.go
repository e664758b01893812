package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IncomeCategories and ExpenseCategories are the recommended category sets
// shown to users. The category field itself is free-form.
var (
	IncomeCategories = []string{
		"Salary",
		"Business",
		"Investments",
		"Freelance",
		"Other Income",
	}

	ExpenseCategories = []string{
		"Housing",
		"Transportation",
		"Food",
		"Utilities",
		"Healthcare",
		"Education",
		"Shopping",
		"Entertainment",
		"Savings",
		"Other Expenses",
	}
)

// Transaction represents a single income or expense event.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Category    string          `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
