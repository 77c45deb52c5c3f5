package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/contractorhub/contractor-directory/internal/audit"
	"github.com/contractorhub/contractor-directory/internal/dto"
	"github.com/contractorhub/contractor-directory/internal/httperr"
	"github.com/contractorhub/contractor-directory/internal/httpresp"
	"github.com/contractorhub/contractor-directory/internal/middleware"
	"github.com/contractorhub/contractor-directory/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ContractorHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewContractorHandler(db *gorm.DB, audit *audit.Dispatcher) *ContractorHandler {
	return &ContractorHandler{
		db:    db,
		audit: audit,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateContractorRequest struct {
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	OrganizationName string `json:"organization_name"`
	Phone            string `json:"phone" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Photo            string `json:"photo"`
	JobTypeIDs       []uint `json:"job_types" binding:"required,min=1"`
}

type UpdateContractorRequest struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	OrganizationName *string `json:"organization_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Email            *string `json:"email,omitempty"`
	Photo            *string `json:"photo,omitempty"`
	JobTypeIDs       []uint  `json:"job_types,omitempty"`
}

// ======================================================
// READ
// ======================================================

func (h *ContractorHandler) List(c *gin.Context) {
	var contractors []models.Contractor
	if err := h.db.
		Preload("JobTypes").
		Order("id ASC").
		Find(&contractors).Error; err != nil {

		httperr.Internal(c, "failed_to_list_contractors", "Failed to fetch contractors.")
		return
	}

	httpresp.List(c, contractors)
}

func (h *ContractorHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var contractor models.Contractor
	if err := h.db.
		Preload("JobTypes").
		First(&contractor, "id = ?", id).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "contractor_not_found", "Contractor not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_contractor", "Failed to fetch contractor.")
		return
	}

	httpresp.OK(c, contractor)
}

// ListByJobType returns every contractor tagged with the given job type.
func (h *ContractorHandler) ListByJobType(c *gin.Context) {
	jobTypeID := c.Param("jobTypeId")

	var contractors []models.Contractor
	if err := h.db.
		Joins("JOIN contractor_job_types cjt ON cjt.contractor_id = contractors.id").
		Where("cjt.job_type_id = ?", jobTypeID).
		Preload("JobTypes").
		Order("contractors.id ASC").
		Find(&contractors).Error; err != nil {

		httperr.Internal(c, "failed_to_list_contractors", "Failed to fetch contractors.")
		return
	}

	httpresp.List(c, contractors)
}

// ListByOwner returns the contractors a user has registered, projected with
// job type display names.
func (h *ContractorHandler) ListByOwner(c *gin.Context) {
	userID := c.Param("userId")

	var contractors []models.Contractor
	if err := h.db.
		Preload("JobTypes").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&contractors).Error; err != nil {

		httperr.Internal(c, "failed_to_list_contractors", "Failed to fetch contractors.")
		return
	}

	out := make([]dto.ContractorWithJobTypesDTO, 0, len(contractors))
	for _, ct := range contractors {
		names := make([]dto.JobTypeNameDTO, 0, len(ct.JobTypes))
		for _, jt := range ct.JobTypes {
			names = append(names, dto.JobTypeNameDTO{JobName: jt.JobName})
		}

		out = append(out, dto.ContractorWithJobTypesDTO{
			ID:               ct.ID,
			FirstName:        ct.FirstName,
			LastName:         ct.LastName,
			OrganizationName: ct.OrganizationName,
			Phone:            ct.Phone,
			Email:            ct.Email,
			Photo:            ct.Photo,
			AverageRating:    ct.AverageRating,
			JobTypes:         names,
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *ContractorHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	jobTypes, ok := h.resolveJobTypes(c, req.JobTypeIDs)
	if !ok {
		return
	}

	contractor := models.Contractor{
		UserID:           userID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
		Phone:            req.Phone,
		Email:            req.Email,
		Photo:            req.Photo,
		JobTypes:         jobTypes,
	}

	if err := h.db.Create(&contractor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_contractor", "Failed to create contractor.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "contractor_created",
		Entity:   "contractor",
		EntityID: &contractor.ID,
	})

	httpresp.Created(c, contractor)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ContractorHandler) Update(c *gin.Context) {
	contractor, ok := h.getOwnedContractor(c)
	if !ok {
		return
	}

	var req UpdateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.FirstName != nil {
		contractor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contractor.LastName = *req.LastName
	}
	if req.OrganizationName != nil {
		contractor.OrganizationName = *req.OrganizationName
	}
	if req.Phone != nil {
		contractor.Phone = *req.Phone
	}
	if req.Email != nil {
		contractor.Email = *req.Email
	}
	if req.Photo != nil {
		contractor.Photo = *req.Photo
	}

	if err := h.db.Save(contractor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_contractor", "Failed to update contractor.")
		return
	}

	if req.JobTypeIDs != nil {
		jobTypes, ok := h.resolveJobTypes(c, req.JobTypeIDs)
		if !ok {
			return
		}
		if err := h.db.Model(contractor).Association("JobTypes").Replace(jobTypes); err != nil {
			httperr.Internal(c, "failed_to_update_contractor", "Failed to update job types.")
			return
		}
		contractor.JobTypes = jobTypes
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "contractor_updated",
		Entity:   "contractor",
		EntityID: &contractor.ID,
	})

	httpresp.OK(c, contractor)
}

// ======================================================
// DELETE
// ======================================================

// Delete removes the listing. Ratings referencing it are kept as-is; the
// joined views simply stop returning them once the contractor is gone.
func (h *ContractorHandler) Delete(c *gin.Context) {
	contractor, ok := h.getOwnedContractor(c)
	if !ok {
		return
	}

	if err := h.db.Model(contractor).Association("JobTypes").Clear(); err != nil {
		httperr.Internal(c, "failed_to_delete_contractor", "Failed to delete contractor.")
		return
	}

	if err := h.db.Delete(contractor).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_contractor", "Failed to delete contractor.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "contractor_deleted",
		Entity:   "contractor",
		EntityID: &contractor.ID,
	})

	httpresp.Message(c, http.StatusOK, "Contractor deleted")
}

// ======================================================
// HELPERS
// ======================================================

// getOwnedContractor loads the contractor from the :id param and enforces
// that the authenticated user owns it (admins bypass the check). Writes the
// error response itself when the second return is false.
func (h *ContractorHandler) getOwnedContractor(c *gin.Context) (*models.Contractor, bool) {
	id := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(uint)
	isAdmin, _ := c.Get(middleware.ContextIsAdmin)

	var contractor models.Contractor
	if err := h.db.First(&contractor, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "contractor_not_found", "Contractor not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_contractor", "Failed to fetch contractor.")
		return nil, false
	}

	if contractor.UserID != userID && isAdmin != true {
		httperr.Forbidden(c, "not_contractor_owner", "Only the owner may modify this contractor.")
		return nil, false
	}

	return &contractor, true
}

func (h *ContractorHandler) resolveJobTypes(c *gin.Context, ids []uint) ([]models.JobType, bool) {
	// Duplicates in the request collapse before the existence check, so a
	// repeated id cannot masquerade as a missing one.
	unique := dedupeIDs(ids)

	var jobTypes []models.JobType
	if err := h.db.Find(&jobTypes, unique).Error; err != nil {
		httperr.Internal(c, "failed_to_get_job_types", "Failed to fetch job types.")
		return nil, false
	}

	if len(jobTypes) != len(unique) {
		httperr.BadRequest(c, "unknown_job_type", "One or more job types do not exist.")
		return nil, false
	}

	return jobTypes, true
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
