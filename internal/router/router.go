package router

import (
	"time"

	"feedmill/internal/config"
	"feedmill/internal/handler"
	"feedmill/internal/middleware"
	"feedmill/internal/repository"
	"feedmill/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))
	r.Use(middleware.ActorRole())

	// ── Repositories ─────────────────────────────────────────────────────────
	materialRepo := repository.NewMaterialRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	acceptanceRepo := repository.NewAcceptanceRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	importJobRepo := repository.NewImportJobRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	priceRepo := repository.NewMonthlyPriceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(movementRepo, materialRepo, rdb)
	acceptanceSvc := service.NewAcceptanceService(acceptanceRepo, materialRepo, analysisRepo, auditRepo, stockSvc)
	analysisSvc := service.NewAnalysisService(analysisRepo, acceptanceRepo)
	importSvc := service.NewBatchImportService(importJobRepo, batchRepo, materialRepo, stockSvc)
	batchFixSvc := service.NewBatchFixService(batchRepo, auditRepo, stockSvc)
	materialSvc := service.NewMaterialService(materialRepo)
	priceSvc := service.NewPriceService(priceRepo, materialRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	acceptanceH := handler.NewAcceptanceHandler(acceptanceSvc)
	analysisH := handler.NewAnalysisHandler(analysisSvc)
	importH := handler.NewImportHandler(importSvc)
	batchH := handler.NewBatchHandler(batchFixSvc)
	stockH := handler.NewStockHandler(stockSvc)
	materialH := handler.NewMaterialHandler(materialSvc)
	priceH := handler.NewPriceHandler(priceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/acceptances", acceptanceH.Create)
		v1.GET("/acceptances", acceptanceH.List)

		v1.POST("/analyses/internal", analysisH.CreateInternal)
		v1.POST("/analyses/external", analysisH.CreateExternal)
		v1.GET("/analyses", analysisH.List)

		v1.POST("/imports/batch", importH.Upload)
		v1.GET("/imports", importH.List)

		v1.GET("/batches/suspicious", batchH.ListSuspicious)
		v1.GET("/batches/:id/zero-loaded", batchH.ZeroLoaded)
		v1.POST("/batches/:id/items/:itemId/fix", batchH.FixItem)

		v1.GET("/stocks", stockH.Overview)
		v1.GET("/stocks/:materialId", stockH.CurrentStock)
		v1.GET("/movements", stockH.ListMovements)

		v1.POST("/materials", materialH.Create)
		v1.GET("/materials", materialH.List)
		v1.PATCH("/materials/:id/deactivate", materialH.Deactivate)
		v1.DELETE("/materials/:id", materialH.Delete)

		v1.POST("/prices", priceH.Create)
		v1.GET("/prices", priceH.List)
	}

	return r
}
