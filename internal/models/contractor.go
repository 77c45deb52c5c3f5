package models

import "time"

type Contractor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:-" json:"-"`

	FirstName        string `gorm:"size:100;not null" json:"first_name"`
	LastName         string `gorm:"size:100;not null" json:"last_name"`
	OrganizationName string `gorm:"size:150" json:"organization_name"`
	Phone            string `gorm:"size:20" json:"phone"`
	Email            string `gorm:"size:100" json:"email"`
	Photo            string `gorm:"size:500" json:"photo"`

	JobTypes []JobType `gorm:"many2many:contractor_job_types" json:"job_types,omitempty"`

	// Mean of all ratings for this contractor. NULL while unrated;
	// only the rating aggregation path writes it.
	AverageRating *float64 `json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
