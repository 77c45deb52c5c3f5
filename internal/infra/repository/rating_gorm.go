package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/contractorhub/contractor-directory/internal/domain/rating"
	"github.com/contractorhub/contractor-directory/internal/dto"
	"github.com/contractorhub/contractor-directory/internal/models"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

// --------------------------------------------------
// Referenced entities
// --------------------------------------------------

func (r *RatingGormRepository) GetContractorByID(
	ctx context.Context,
	id uint,
) (*models.Contractor, error) {

	var contractor models.Contractor
	if err := r.db.WithContext(ctx).First(&contractor, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &contractor, nil
}

func (r *RatingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *RatingGormRepository) GetRatingByID(
	ctx context.Context,
	id uint,
) (*models.Rating, error) {

	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &rating, nil
}

// translateNotFound maps gorm's missing-row error onto the domain sentinel
// and leaves every other store error untouched.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------
//
// The FOR UPDATE lock on the contractor row is the per-contractor
// mutual-exclusion region: concurrent mutations for the same contractor
// queue behind it, so every recompute sees the full committed rating set.
// The transaction also means a failed recompute rolls the insert/delete
// back instead of leaving the stored average stale.

func (r *RatingGormRepository) CreateRatingWithAverage(
	ctx context.Context,
	rating *models.Rating,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contractor models.Contractor
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&contractor, rating.ContractorID).Error; err != nil {
			return translateNotFound(err)
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		return refreshAverage(tx, contractor.ID)
	})
}

func (r *RatingGormRepository) DeleteRatingWithAverage(
	ctx context.Context,
	rating *models.Rating,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contractor models.Contractor
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&contractor, rating.ContractorID).Error; err != nil {
			return translateNotFound(err)
		}

		res := tx.Delete(&models.Rating{}, rating.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent delete of the same rating.
			return domain.ErrNotFound
		}

		return refreshAverage(tx, contractor.ID)
	})
}

// refreshAverage recomputes the mean over the contractor's current ratings
// from scratch. Full scan over a handful of rows beats carrying an
// incremental sum that can drift.
func refreshAverage(tx *gorm.DB, contractorID uint) error {
	var scores []float64
	if err := tx.Model(&models.Rating{}).
		Where("contractor_id = ?", contractorID).
		Pluck("score", &scores).Error; err != nil {
		return err
	}

	return tx.Model(&models.Contractor{}).
		Where("id = ?", contractorID).
		Update("average_rating", domain.Average(scores)).Error
}

// --------------------------------------------------
// Joined read views
// --------------------------------------------------

func (r *RatingGormRepository) ListByContractor(
	ctx context.Context,
	contractorID uint,
) ([]dto.RatingWithRaterDTO, error) {

	var rows []dto.RatingWithRaterDTO
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`ratings.id,
			ratings.contractor_id,
			ratings.user_id,
			ratings.score,
			ratings.comment,
			ratings.created_at,
			users.username AS username`).
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.contractor_id = ?", contractorID).
		Order("ratings.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *RatingGormRepository) ListByAuthor(
	ctx context.Context,
	userID uint,
) ([]dto.RatingWithContractorDTO, error) {

	var rows []dto.RatingWithContractorDTO
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`ratings.id,
			ratings.contractor_id,
			ratings.user_id,
			ratings.score,
			ratings.comment,
			ratings.created_at,
			CONCAT(contractors.first_name, ' ', contractors.last_name) AS contractor_name`).
		Joins("JOIN contractors ON contractors.id = ratings.contractor_id").
		Where("ratings.user_id = ?", userID).
		Order("ratings.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
