package router

import (
	"time"

	"dellasoft/internal/config"
	"dellasoft/internal/handler"
	"dellasoft/internal/infra"
	"dellasoft/internal/middleware"
	"dellasoft/internal/model"
	"dellasoft/internal/repository"
	"dellasoft/internal/service"
	"dellasoft/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, clock service.Clock, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	stockRepo := repository.NewStockRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	posRepo := repository.NewPOSRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Invoice jobs are produced here and consumed by the pool started in main
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	catalogSvc := service.NewCatalogService(catalogRepo, rdb)
	stockSvc := service.NewStockService(stockRepo, catalogRepo)
	posSvc := service.NewPOSService(posRepo, transactionRepo, clock)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, catalogRepo, transactionRepo, clock)
	paymentSvc := service.NewPaymentService(orderRepo, posRepo, transactionRepo, posSvc, clock, dispatcher)
	reportSvc := service.NewReportService(catalogRepo, stockRepo, orderRepo, clock, cfg.BusinessName)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	stockH := handler.NewStockHandler(stockSvc)
	posH := handler.NewPOSHandler(posSvc, clock)
	ordersH := handler.NewOrdersHandler(orderSvc, paymentSvc, invoiceSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	staff := middleware.RequireRole(model.RoleEmployee, model.RoleAdmin)
	admin := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		customers := v1.Group("/customers", staff)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
		}

		// Catalog reads are open to staff; writes are admin only
		v1.GET("/products", staff, catalogH.ListProducts)
		v1.GET("/products/:id", staff, catalogH.GetProduct)
		v1.GET("/products/:id/recipe", staff, catalogH.GetRecipe)
		v1.POST("/products", admin, catalogH.CreateProduct)
		v1.PUT("/products/:id", admin, catalogH.UpdateProduct)
		v1.PUT("/products/:id/recipe", admin, catalogH.SetRecipe)

		v1.GET("/ingredients", staff, catalogH.ListIngredients)
		v1.GET("/ingredients/:id", staff, catalogH.GetIngredient)
		v1.POST("/ingredients", admin, catalogH.CreateIngredient)

		stock := v1.Group("/stock", staff)
		{
			stock.GET("", stockH.GetByOwner)
			stock.GET("/low", stockH.Low)
			stock.GET("/:id", stockH.Get)
			stock.GET("/:id/movements", stockH.Movements)
			stock.POST("/:id/adjust", stockH.Adjust)
			stock.POST("", admin, stockH.Create)
		}

		orders := v1.Group("/orders", staff)
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.PUT("/:id", ordersH.Update)
			orders.GET("/:id/pending", ordersH.Pending)
			orders.POST("/:id/payments", ordersH.Pay)
			orders.GET("/:id/transactions", ordersH.Transactions)
			orders.GET("/:id/invoice", ordersH.Invoice)
		}

		pos := v1.Group("/pos", staff)
		{
			pos.POST("", posH.Open)
			pos.GET("/today", posH.Today)
			pos.GET("/:id", posH.Get)
			pos.GET("/:id/transactions", posH.Transactions)
			pos.GET("", admin, posH.History)
		}

		reports := v1.Group("/reports", admin)
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/monthly.pdf", reportsH.PDF)
			reports.GET("/monthly.xlsx", reportsH.XLSX)
		}

		users := v1.Group("/users", admin)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
		}
	}

	// Swagger UI; only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
