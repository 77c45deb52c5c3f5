package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/contractorhub/contractor-directory/internal/cache"
	"github.com/contractorhub/contractor-directory/internal/httperr"
	"github.com/contractorhub/contractor-directory/internal/httpresp"
	"github.com/contractorhub/contractor-directory/internal/models"
)

const (
	jobTypesCacheKey = "job_types:grouped"
	jobTypesCacheTTL = 12 * time.Hour
)

type JobTypeHandler struct {
	db    *gorm.DB
	cache *cache.Redis
}

func NewJobTypeHandler(db *gorm.DB, cache *cache.Redis) *JobTypeHandler {
	return &JobTypeHandler{db: db, cache: cache}
}

type JobTypeEntry struct {
	ID          uint   `json:"id"`
	JobName     string `json:"job_name"`
	Description string `json:"description"`
}

// List returns the catalog grouped by category. The catalog is static
// reference data, so the grouped form is cached with a long TTL and redis
// being down just means every request hits the store.
func (h *JobTypeHandler) List(c *gin.Context) {
	var grouped map[string][]JobTypeEntry
	if h.cache.GetJSON(c.Request.Context(), jobTypesCacheKey, &grouped) {
		httpresp.OK(c, grouped)
		return
	}

	var jobTypes []models.JobType
	if err := h.db.Order("category ASC, job_name ASC").Find(&jobTypes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_job_types", "Failed to fetch job types.")
		return
	}

	grouped = GroupJobTypesByCategory(jobTypes)
	h.cache.SetJSON(c.Request.Context(), jobTypesCacheKey, grouped, jobTypesCacheTTL)

	httpresp.OK(c, grouped)
}

func GroupJobTypesByCategory(jobTypes []models.JobType) map[string][]JobTypeEntry {
	grouped := make(map[string][]JobTypeEntry)
	for _, jt := range jobTypes {
		grouped[jt.Category] = append(grouped[jt.Category], JobTypeEntry{
			ID:          jt.ID,
			JobName:     jt.JobName,
			Description: jt.Description,
		})
	}
	return grouped
}
