package models

import "time"

// A rating is immutable once created; there is no edit flow. A user may
// rate the same contractor more than once.
//
// No FK constraints on the references: deleting a contractor keeps its
// ratings as orphans, which the joined views simply stop returning.
type Rating struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ContractorID uint       `gorm:"index;not null" json:"contractor_id"`
	Contractor   Contractor `gorm:"constraint:-" json:"-"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:-" json:"-"`

	Score   float64 `gorm:"not null" json:"score"`
	Comment string  `gorm:"size:500;not null" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
