package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/config"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/handler"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/middleware"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/repository"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/service"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, service.AuditService) {
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
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	registerRepo := repository.NewRegisterRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(tenantRepo, cfg)
	registerSvc := service.NewRegisterService(registerRepo, movementRepo, saleRepo, tenantRepo)
	movementSvc := service.NewMovementService(registerRepo, movementRepo)
	auditSvc := service.NewAuditService(registerRepo, saleRepo, auditRepo)

	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	registerH := handler.NewRegisterHandler(registerSvc)
	movementH := handler.NewMovementHandler(movementSvc)
	auditH := handler.NewAuditHandler(auditSvc, dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		registers := v1.Group("/registers")
		{
			registers.POST("/open", registerH.Open)
			registers.GET("/active", registerH.Active)
			registers.GET("/active/summary", registerH.LiveSummary)
			registers.GET("/close-context", registerH.CloseContext)
			registers.POST("/close", registerH.Close)
			registers.GET("/history", registerH.History)
			registers.GET("/:id", registerH.Get)
			registers.GET("/:id/movements", movementH.List)
		}

		v1.POST("/movements", movementH.Record)

		audit := v1.Group("/audit")
		{
			audit.POST("/run", auditH.Run)
			audit.POST("/enqueue", auditH.Enqueue)
			audit.GET("/records", auditH.Records)
		}
	}

	return r, auditSvc
}
