package models

import "time"

// Client is a closed account, the terminal state of a lead.
type Client struct {
	ID                     uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                 string    `gorm:"type:char(36);not null;index" json:"userId"`
	Name                   string    `gorm:"size:255;not null" json:"name"`
	MonthlyContractCents   int64     `gorm:"not null;default:0" json:"monthlyContractCents"`
	InitialCollectedCents  int64     `gorm:"not null;default:0" json:"initialCollectedCents"`
	CloseDate              string    `gorm:"size:10" json:"closeDate"` // YYYY-MM-DD
	SalesProcessLengthDays int       `gorm:"not null;default:0" json:"salesProcessLengthDays"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Client
func (Client) TableName() string {
	return "clients"
}
