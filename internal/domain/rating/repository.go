package rating

import (
	"context"
	"errors"

	"github.com/contractorhub/contractor-directory/internal/dto"
	"github.com/contractorhub/contractor-directory/internal/models"
)

// ErrNotFound is what repository lookups return when the row does not
// exist. Anything else coming out of the repository is a store failure and
// must surface as one; use cases only translate this sentinel into a
// not-found business code.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// -------- Referenced entities --------
	GetContractorByID(
		ctx context.Context,
		id uint,
	) (*models.Contractor, error)

	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetRatingByID(
		ctx context.Context,
		id uint,
	) (*models.Rating, error)

	// -------- Mutations (average kept in sync) --------
	//
	// Both calls must run the insert/delete and the average recompute for
	// the affected contractor as a single unit, mutually exclusive with
	// any other mutation touching the same contractor. Mutations against
	// different contractors may run in parallel.
	CreateRatingWithAverage(
		ctx context.Context,
		r *models.Rating,
	) error

	DeleteRatingWithAverage(
		ctx context.Context,
		r *models.Rating,
	) error

	// -------- Joined read views --------
	ListByContractor(
		ctx context.Context,
		contractorID uint,
	) ([]dto.RatingWithRaterDTO, error)

	ListByAuthor(
		ctx context.Context,
		userID uint,
	) ([]dto.RatingWithContractorDTO, error)
}
