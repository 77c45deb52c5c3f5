package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/contractorhub/contractor-directory/internal/httperr"
	"github.com/contractorhub/contractor-directory/internal/httpresp"
	"github.com/contractorhub/contractor-directory/internal/middleware"
	"github.com/contractorhub/contractor-directory/internal/models"
	ucRating "github.com/contractorhub/contractor-directory/internal/usecase/rating"
)

// ======================================================
// HANDLER
// ======================================================

type RatingHandler struct {
	db *gorm.DB

	submitUC            *ucRating.SubmitRating
	deleteUC            *ucRating.DeleteRating
	listForContractorUC *ucRating.ListRatingsForContractor
	listForUserUC       *ucRating.ListRatingsForUser
}

func NewRatingHandler(
	db *gorm.DB,
	submitUC *ucRating.SubmitRating,
	deleteUC *ucRating.DeleteRating,
	listForContractorUC *ucRating.ListRatingsForContractor,
	listForUserUC *ucRating.ListRatingsForUser,
) *RatingHandler {
	return &RatingHandler{
		db:                  db,
		submitUC:            submitUC,
		deleteUC:            deleteUC,
		listForContractorUC: listForContractorUC,
		listForUserUC:       listForUserUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SubmitRatingRequest struct {
	ContractorID uint    `json:"contractor_id" binding:"required"`
	UserID       uint    `json:"user_id"`
	Rating       float64 `json:"rating" binding:"required"`
	Comment      string  `json:"comment" binding:"required"`
}

// ======================================================
// SUBMIT
// ======================================================

func (h *RatingHandler) Submit(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// The rater is the authenticated user; a body user_id is accepted for
	// compatibility but must match the token.
	if req.UserID != 0 && req.UserID != userID {
		httperr.Forbidden(c, "not_rating_author", "Ratings can only be submitted as yourself.")
		return
	}

	rating, err := h.submitUC.Execute(c.Request.Context(), ucRating.SubmitRatingInput{
		ContractorID: req.ContractorID,
		UserID:       userID,
		Score:        req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		h.writeRatingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Rating submitted and average updated",
		"rating":  rating,
	})
}

// ======================================================
// LISTS
// ======================================================

func (h *RatingHandler) ListForContractor(c *gin.Context) {
	contractorID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_contractor_id", "Contractor id must be numeric.")
		return
	}

	ratings, err := h.listForContractorUC.Execute(c.Request.Context(), contractorID)
	if err != nil {
		h.writeRatingError(c, err)
		return
	}

	httpresp.OK(c, ratings)
}

func (h *RatingHandler) ListForUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "User id must be numeric.")
		return
	}

	ratings, err := h.listForUserUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.writeRatingError(c, err)
		return
	}

	httpresp.OK(c, ratings)
}

// ======================================================
// DELETE
// ======================================================

func (h *RatingHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	isAdmin, _ := c.Get(middleware.ContextIsAdmin)

	ratingID, err := parseIDParam(c, "ratingId")
	if err != nil {
		httperr.BadRequest(c, "invalid_rating_id", "Rating id must be numeric.")
		return
	}

	// Authorship check lives here; the aggregator trusts its caller.
	var rating models.Rating
	if err := h.db.First(&rating, ratingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "rating_not_found", "Rating not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_rating", "Failed to fetch rating.")
		return
	}

	if rating.UserID != userID && isAdmin != true {
		httperr.Forbidden(c, "not_rating_author", "Only the author may delete a rating.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), ratingID, userID); err != nil {
		h.writeRatingError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Rating deleted and average updated")
}

// ======================================================
// HELPERS
// ======================================================

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

func (h *RatingHandler) writeRatingError(c *gin.Context, err error) {
	switch code := httperr.BusinessCode(err); code {
	case "invalid_score":
		httperr.BadRequest(c, code, "Score must be between 1 and 5.")
	case "empty_comment":
		httperr.BadRequest(c, code, "Comment must not be empty.")
	case "contractor_not_found":
		httperr.NotFound(c, code, "Contractor not found.")
	case "user_not_found":
		httperr.NotFound(c, code, "User not found.")
	case "rating_not_found":
		httperr.NotFound(c, code, "Rating not found.")
	default:
		httperr.Internal(c, "internal_error", "Operation failed, please retry.")
	}
}
