package models

import "time"

// InsightReport is the cached markdown narrative produced for a user.
// At most one report exists per user; each successful generation
// overwrites the previous one.
type InsightReport struct {
	UserID           string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Content          string    `gorm:"not null" json:"content"`
	Source           string    `gorm:"not null" json:"source"`
	TransactionCount int       `json:"transaction_count"`
	GoalCount        int       `json:"goal_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
