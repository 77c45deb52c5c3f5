package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/contractorhub/contractor-directory/internal/audit"
	"github.com/contractorhub/contractor-directory/internal/cache"
	"github.com/contractorhub/contractor-directory/internal/config"
	"github.com/contractorhub/contractor-directory/internal/handlers"
	infraRepo "github.com/contractorhub/contractor-directory/internal/infra/repository"
	"github.com/contractorhub/contractor-directory/internal/middleware"
	ucRating "github.com/contractorhub/contractor-directory/internal/usecase/rating"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	ratingRepo := infraRepo.NewRatingGormRepository(db)
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — RATING AGGREGATION
	// ======================================================
	submitRatingUC := ucRating.NewSubmitRating(ratingRepo, auditDispatcher)
	deleteRatingUC := ucRating.NewDeleteRating(ratingRepo, auditDispatcher)
	listRatingsForContractorUC := ucRating.NewListRatingsForContractor(ratingRepo)
	listRatingsForUserUC := ucRating.NewListRatingsForUser(ratingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	userHandler := handlers.NewUserHandler(db)
	jobTypeHandler := handlers.NewJobTypeHandler(db, redisCache)
	contractorHandler := handlers.NewContractorHandler(db, auditDispatcher)

	ratingHandler := handlers.NewRatingHandler(
		db,
		submitRatingUC,
		deleteRatingUC,
		listRatingsForContractorUC,
		listRatingsForUserUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC DIRECTORY
		// ------------------------------
		api.GET("/job-types", jobTypeHandler.List)

		api.GET("/contractors", contractorHandler.List)
		api.GET("/contractors/:id", contractorHandler.GetByID)
		api.GET("/contractors/by-job-type/:jobTypeId", contractorHandler.ListByJobType)
		api.GET("/contractors/by-user/:userId", contractorHandler.ListByOwner)

		api.GET("/users/:id", userHandler.GetByID)

		api.GET("/rating-post/contractor/:id", ratingHandler.ListForContractor)
		api.GET("/rating-post/user/:id", ratingHandler.ListForUser)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/users", userHandler.List)

			secured.POST("/contractors", contractorHandler.Create)
			secured.PATCH("/contractors/:id", contractorHandler.Update)
			secured.DELETE("/contractors/:id", contractorHandler.Delete)

			// ------------------------------
			// RATINGS
			// ------------------------------
			secured.POST("/rating-post", ratingHandler.Submit)
			secured.DELETE("/rating-post/:ratingId", ratingHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
