package models

import "time"

// HotLead is a pipeline contact tracked for daily follow-ups.
type HotLead struct {
	ID                 string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID             string    `gorm:"type:char(36);not null;index" json:"userId"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	Company            string    `gorm:"size:255" json:"company"`
	Phone              string    `gorm:"size:64" json:"phone"`
	Email              string    `gorm:"size:255" json:"email"`
	InterestLevel      string    `gorm:"size:32" json:"interestLevel"`
	Prospecting        bool      `gorm:"not null;default:false" json:"prospecting"`
	DateAdded          string    `gorm:"size:10;index" json:"dateAdded"` // YYYY-MM-DD
	AppointmentDate    string    `gorm:"size:10" json:"appointmentDate"`
	CompletedFollowUps int       `gorm:"not null;default:0" json:"completedFollowUps"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName overrides the table name for HotLead
func (HotLead) TableName() string {
	return "hot_leads"
}
