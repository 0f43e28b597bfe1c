package models

import "time"

// Transaction is a revenue event. Amounts are integer minor units (cents);
// rollups never accumulate floating point.
type Transaction struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:char(36);not null;index" json:"userId"`
	Date        string    `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	AmountCents int64     `gorm:"not null" json:"amountCents"`
	IsRecurring bool      `gorm:"not null;default:false" json:"isRecurring"`
	ClientName  string    `gorm:"size:255" json:"clientName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
