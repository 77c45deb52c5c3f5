package models

import "time"

// Static reference data, seeded at startup. The API never writes to it.
type JobType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Category    string `gorm:"size:50;index;not null" json:"category"`
	JobName     string `gorm:"size:100;not null" json:"job_name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}
