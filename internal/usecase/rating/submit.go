package rating

import (
	"context"
	"errors"
	"strings"

	"github.com/contractorhub/contractor-directory/internal/audit"
	domain "github.com/contractorhub/contractor-directory/internal/domain/rating"
	"github.com/contractorhub/contractor-directory/internal/httperr"
	"github.com/contractorhub/contractor-directory/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type SubmitRatingInput struct {
	ContractorID uint
	UserID       uint
	Score        float64
	Comment      string
}

// ======================================================
// USE CASE
// ======================================================

type SubmitRating struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSubmitRating(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SubmitRating {
	return &SubmitRating{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitRating) Execute(
	ctx context.Context,
	in SubmitRatingInput,
) (*models.Rating, error) {

	// --------------------------------------------------
	// 1. Input validation (no side effects on failure)
	// --------------------------------------------------
	if err := domain.ValidateScore(in.Score); err != nil {
		return nil, err
	}
	if err := domain.ValidateComment(in.Comment); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Referenced entities must resolve
	// --------------------------------------------------
	if _, err := uc.repo.GetContractorByID(ctx, in.ContractorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("contractor_not_found")
		}
		return nil, err
	}

	if _, err := uc.repo.GetUserByID(ctx, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. Insert + average recompute, one unit per contractor
	// --------------------------------------------------
	r := &models.Rating{
		ContractorID: in.ContractorID,
		UserID:       in.UserID,
		Score:        in.Score,
		Comment:      strings.TrimSpace(in.Comment),
	}

	if err := uc.repo.CreateRatingWithAverage(ctx, r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("contractor_not_found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. Audit trail
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "rating_submitted",
		Entity:   "rating",
		EntityID: &r.ID,
	})

	return r, nil
}
