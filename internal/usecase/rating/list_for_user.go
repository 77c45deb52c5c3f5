package rating

import (
	"context"
	"errors"

	domain "github.com/contractorhub/contractor-directory/internal/domain/rating"
	"github.com/contractorhub/contractor-directory/internal/dto"
	"github.com/contractorhub/contractor-directory/internal/httperr"
)

type ListRatingsForUser struct {
	repo domain.Repository
}

func NewListRatingsForUser(repo domain.Repository) *ListRatingsForUser {
	return &ListRatingsForUser{repo: repo}
}

// Execute returns the ratings a user has authored, each joined with the
// rated contractor's display name, newest first.
func (uc *ListRatingsForUser) Execute(
	ctx context.Context,
	userID uint,
) ([]dto.RatingWithContractorDTO, error) {

	if _, err := uc.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	return uc.repo.ListByAuthor(ctx, userID)
}
