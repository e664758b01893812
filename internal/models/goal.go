package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a user-defined savings target with a due date.
// CurrentAmount is updated as the user saves towards the goal.
type Goal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"current_amount"`
	TargetDate    time.Time       `gorm:"not null" json:"target_date"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
