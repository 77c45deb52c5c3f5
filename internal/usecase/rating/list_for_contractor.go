package rating

import (
	"context"
	"errors"

	domain "github.com/contractorhub/contractor-directory/internal/domain/rating"
	"github.com/contractorhub/contractor-directory/internal/dto"
	"github.com/contractorhub/contractor-directory/internal/httperr"
)

type ListRatingsForContractor struct {
	repo domain.Repository
}

func NewListRatingsForContractor(repo domain.Repository) *ListRatingsForContractor {
	return &ListRatingsForContractor{repo: repo}
}

// Execute returns the contractor's ratings joined with each rater's
// username, newest first.
func (uc *ListRatingsForContractor) Execute(
	ctx context.Context,
	contractorID uint,
) ([]dto.RatingWithRaterDTO, error) {

	if _, err := uc.repo.GetContractorByID(ctx, contractorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("contractor_not_found")
		}
		return nil, err
	}

	return uc.repo.ListByContractor(ctx, contractorID)
}
