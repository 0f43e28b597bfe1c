package models

import "time"

// Quote is a saved piece of AI-generated content. The service stores and
// returns the document; generation happens upstream.
type Quote struct {
	ID      uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string    `gorm:"type:char(36);not null;index" json:"userId"`
	Content JSON      `gorm:"type:json" json:"content"`
	SavedAt time.Time `json:"savedAt"`
}

// TableName overrides the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}
