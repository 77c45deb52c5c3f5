package dto

type JobTypeNameDTO struct {
	JobName string `json:"job_name"`
}

// Contractor projection for the "my contractors" listing: profile fields plus
// the display names of the attached job types.
type ContractorWithJobTypesDTO struct {
	ID               uint             `json:"id"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	OrganizationName string           `json:"organization_name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Photo            string           `json:"photo"`
	AverageRating    *float64         `json:"average_rating"`
	JobTypes         []JobTypeNameDTO `json:"job_types"`
}
