package main

import (
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"mercadopos/internal/caching"
	"mercadopos/internal/handlers"
	"mercadopos/internal/jobs"
	"mercadopos/internal/jobs/background"
	"mercadopos/internal/middleware"
	"mercadopos/internal/repositories"
	"mercadopos/internal/services"
	"mercadopos/pkg/database"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			redisDB = parsed
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	storageSvc, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Repositories
	productRepo := repositories.NewProductRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	storeRepo := repositories.NewStoreRepo(pool)
	profileRepo := repositories.NewProfileRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)
	saleItemRepo := repositories.NewSaleItemRepo(pool)
	salePaymentRepo := repositories.NewSalePaymentRepo(pool)
	installmentRepo := repositories.NewInstallmentRepo(pool)
	pendingSaleRepo := repositories.NewPendingSaleRepo(pool)
	billRepo := repositories.NewBillRepo(pool)

	// Cache
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	catalogSvc := services.NewCatalogService(productRepo, cacheSvc)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	categorySvc := services.NewCategoryService(categoryRepo)
	storeSvc := services.NewStoreService(storeRepo, profileRepo, storageSvc, cacheSvc)
	checkoutSvc := services.NewCheckoutService(pool, saleRepo, saleItemRepo, salePaymentRepo, installmentRepo, productRepo, storeRepo, cacheSvc)
	pendingSvc := services.NewPendingSaleService(pendingSaleRepo)
	installmentSvc := services.NewInstallmentService(installmentRepo, saleRepo)
	billSvc := services.NewBillService(billRepo)
	reportSvc := services.NewReportService(saleRepo, saleItemRepo, cacheSvc)

	// Background jobs
	alertSvc := jobs.NewAlertService(productRepo, installmentRepo, storeRepo)
	scheduler, err := background.NewJobScheduler(alertSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	storeHandlers := handlers.NewStoreHandlers(storeSvc)
	pdvHandlers := handlers.NewPDVHandlers(catalogSvc, checkoutSvc, pendingSvc, productSvc)
	saleHandlers := handlers.NewSaleHandlers(reportSvc)
	installmentHandlers := handlers.NewInstallmentHandlers(installmentSvc)
	billHandlers := handlers.NewBillHandlers(billSvc)

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware(profileRepo, jwtSecret))

	// Store setup and identity
	api.POST("/store/setup", storeHandlers.SetupStore)
	api.GET("/store", storeHandlers.GetStore)
	api.PUT("/store", storeHandlers.UpdateStore)
	api.POST("/store/logo", storeHandlers.UploadLogo)
	api.GET("/store/logo", storeHandlers.LogoURL)

	// Catalog
	api.POST("/products", productHandlers.CreateProduct)
	api.GET("/products", productHandlers.ListProducts)
	api.GET("/products/low-stock", productHandlers.ListLowStock)
	api.GET("/products/:id", productHandlers.GetProduct)
	api.PUT("/products/:id", productHandlers.UpdateProduct)
	api.DELETE("/products/:id", productHandlers.DeleteProduct)

	api.POST("/categories", categoryHandlers.CreateCategory)
	api.GET("/categories", categoryHandlers.ListCategories)
	api.GET("/categories/:id", categoryHandlers.GetCategory)
	api.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	api.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	// Point of sale
	api.GET("/pdv/products/barcode/:code", pdvHandlers.LookupBarcode)
	api.GET("/pdv/products/search", pdvHandlers.SearchProducts)
	api.POST("/pdv/checkout", pdvHandlers.Settle)
	api.POST("/pdv/pending", pdvHandlers.Suspend)
	api.GET("/pdv/pending", pdvHandlers.ListPending)
	api.POST("/pdv/pending/:id/resume", pdvHandlers.Resume)

	// Sales and reports
	api.GET("/sales", saleHandlers.ListSales)
	api.GET("/sales/:id", saleHandlers.GetSale)
	api.GET("/sales/:id/receipt", pdvHandlers.Receipt)
	api.GET("/sales/:id/receipt/pdf", pdvHandlers.ReceiptPDF)
	api.GET("/sales/:id/installments", installmentHandlers.ListBySale)
	api.GET("/reports/daily", saleHandlers.DailySummary)

	// Installments
	api.GET("/installments", installmentHandlers.List)
	api.GET("/installments/overdue", installmentHandlers.ListOverdue)
	api.POST("/installments/:id/pay", installmentHandlers.MarkPaid)

	// Bills
	api.POST("/bills", billHandlers.CreateBill)
	api.GET("/bills", billHandlers.ListBills)
	api.PUT("/bills/:id", billHandlers.UpdateBill)
	api.GET("/bills/:id", billHandlers.GetBill)
	api.DELETE("/bills/:id", billHandlers.DeleteBill)
	api.POST("/bills/:id/pay", billHandlers.MarkPaid)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
