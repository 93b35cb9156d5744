package router

import (
	"time"

	"smartstock/internal/config"
	"smartstock/internal/handler"
	"smartstock/internal/middleware"
	"smartstock/internal/repository"
	"smartstock/internal/service"
	"smartstock/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	codeGen := repository.NewCodeGenerator(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo, codeGen)
	ledgerSvc := service.NewLedgerService(productRepo, movementRepo, saleRepo, codeGen, dispatcher)
	dashboardSvc := service.NewDashboardService(productRepo, movementRepo, saleRepo)
	reportSvc := service.NewReportService(movementRepo, saleRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	stockH := handler.NewStockHandler(ledgerSvc)
	salesH := handler.NewSalesHandler(ledgerSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	usersH := handler.NewUsersHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — both roles read, admin writes
		v1.GET("/products", middleware.RequireRole("user", "admin"), productsH.List)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
		}

		// Stock ledger — both roles record and read
		v1.GET("/stock-movements", middleware.RequireRole("user", "admin"), stockH.List)
		v1.POST("/stock-movements", middleware.RequireRole("user", "admin"), stockH.Record)

		// Sales
		v1.GET("/sales", middleware.RequireRole("user", "admin"), salesH.List)
		v1.POST("/sales", middleware.RequireRole("user", "admin"), salesH.Record)

		// Dashboard
		dash := v1.Group("/dashboard", middleware.RequireRole("user", "admin"))
		{
			dash.GET("/stats", dashboardH.Stats)
			dash.GET("/top-products", dashboardH.TopProducts)
			dash.GET("/monthly-sales", dashboardH.MonthlySales)
		}

		// Reports — summary readable by both roles, PDF export admin-only
		v1.GET("/reports/summary", middleware.RequireRole("user", "admin"), reportsH.Summary)
		v1.POST("/reports/pdf", middleware.RequireRole("admin"), reportsH.ExportPDF)

		// User administration — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
