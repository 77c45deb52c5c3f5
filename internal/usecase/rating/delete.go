package rating

import (
	"context"
	"errors"

	"github.com/contractorhub/contractor-directory/internal/audit"
	domain "github.com/contractorhub/contractor-directory/internal/domain/rating"
	"github.com/contractorhub/contractor-directory/internal/httperr"
)

type DeleteRating struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteRating(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteRating {
	return &DeleteRating{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes a rating and refreshes the owning contractor's average.
// Deleting an id that no longer exists is an error, not a no-op, so callers
// can tell a repeat delete from a successful one. Authorship is checked by
// the HTTP layer before this runs.
func (uc *DeleteRating) Execute(
	ctx context.Context,
	ratingID uint,
	requestingUserID uint,
) error {

	r, err := uc.repo.GetRatingByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("rating_not_found")
		}
		return err
	}

	if err := uc.repo.DeleteRatingWithAverage(ctx, r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("rating_not_found")
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &requestingUserID,
		Action:   "rating_deleted",
		Entity:   "rating",
		EntityID: &r.ID,
	})

	return nil
}
