package models

import "time"

// DayRow is the persisted form of one user's day record: the whole document
// as JSON, keyed (user_id, date). Rows are never deleted; the historical
// ledger feeds the revenue and EOD rollups.
type DayRow struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"type:char(36);not null;index:idx_user_date,unique"`
	Date      string `gorm:"size:10;not null;index:idx_user_date,unique"` // YYYY-MM-DD
	Data      JSON   `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for DayRow
func (DayRow) TableName() string {
	return "day_data"
}
