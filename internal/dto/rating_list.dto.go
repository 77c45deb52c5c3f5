package dto

import "time"

// Rating joined with the rater's public identity. Only the username crosses
// the boundary; credentials never appear in this projection.
type RatingWithRaterDTO struct {
	ID           uint      `json:"id"`
	ContractorID uint      `json:"contractor_id"`
	UserID       uint      `json:"user_id"`
	Score        float64   `json:"score"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username"`
}

// Rating joined with a snapshot of the rated contractor's display name.
type RatingWithContractorDTO struct {
	ID             uint      `json:"id"`
	ContractorID   uint      `json:"contractor_id"`
	UserID         uint      `json:"user_id"`
	Score          float64   `json:"score"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
	ContractorName string    `json:"contractor_name"`
}
