package router

import (
	"time"

	"betteredible/internal/config"
	"betteredible/internal/handler"
	"betteredible/internal/infra"
	"betteredible/internal/middleware"
	"betteredible/internal/repository"
	"betteredible/internal/service"
	"betteredible/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, locker *infra.RecordLocker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.IsProduction() {
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
	clientRepo := repository.NewClientRepository(db)
	lineRepo := repository.NewProductLineRepository(db)
	productRepo := repository.NewProductRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	clientSvc := service.NewClientService(clientRepo)
	catalogSvc := service.NewCatalogService(lineRepo, productRepo)
	labelSvc := service.NewLabelService(labelRepo, clientRepo, productRepo, locker)
	orderSvc := service.NewOrderService(orderRepo, labelRepo, clientRepo, locker, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	linesH := handler.NewProductLinesHandler(catalogSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	labelsH := handler.NewLabelsHandler(labelSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)

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
		// Roles: admin, production, sales — declared per-endpoint

		// Catalog: everyone reads, admin writes
		v1.GET("/product-lines", linesH.List)
		lines := v1.Group("/product-lines", middleware.RequireRole("admin"))
		{
			lines.POST("", linesH.Create)
			lines.PUT("/:id", linesH.Update)
			lines.DELETE("/:id", linesH.Deactivate)
		}

		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.Get)
		v1.GET("/products/:id/price", productsH.ResolvePrice)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		// Clients — sales and admin manage, production reads
		v1.GET("/clients", clientsH.List)
		v1.GET("/clients/:clientId", clientsH.Get)
		clients := v1.Group("/clients", middleware.RequireRole("admin", "sales"))
		{
			clients.POST("", clientsH.Create)
			clients.PUT("/:clientId", clientsH.Update)
			clients.DELETE("/:clientId", clientsH.Deactivate)
		}

		// Labels — nested under the owning client for create/list/bulk
		v1.GET("/clients/:clientId/labels", labelsH.ListByClient)
		v1.GET("/clients/:clientId/labels/approved", labelsH.Approved)
		v1.POST("/clients/:clientId/labels", middleware.RequireRole("admin", "sales"), labelsH.Create)
		v1.POST("/clients/:clientId/labels/advance", middleware.RequireRole("admin", "production"), labelsH.BulkAdvance)

		v1.PUT("/labels/:id", middleware.RequireRole("admin", "sales"), labelsH.Update)
		v1.GET("/labels/:id/history", labelsH.History)
		v1.POST("/labels/:id/advance", middleware.RequireRole("admin", "production"), labelsH.Advance)

		// Orders
		v1.GET("/orders", ordersH.List)
		v1.GET("/orders/:id", ordersH.Get)
		v1.POST("/orders", middleware.RequireRole("admin", "sales"), ordersH.Create)
		v1.POST("/orders/quote", middleware.RequireRole("admin", "sales"), ordersH.Quote)
		v1.PUT("/orders/:id", middleware.RequireRole("admin", "sales"), ordersH.Update)
		v1.POST("/orders/:id/push", middleware.RequireRole("admin", "sales"), ordersH.PushToProduction)
		v1.PATCH("/orders/:id/status", middleware.RequireRole("admin", "production"), ordersH.UpdateStatus)
		v1.PATCH("/orders/:id/ship-asap", middleware.RequireRole("admin", "sales", "production"), ordersH.SetShipASAP)
		v1.DELETE("/orders/:id", middleware.RequireRole("admin"), ordersH.Delete)

		// Users — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
