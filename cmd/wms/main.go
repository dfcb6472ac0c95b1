package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	catentity "github.com/bitfantasy/nimo-wms/internal/catalog/entity"
	cathandler "github.com/bitfantasy/nimo-wms/internal/catalog/handler"
	catrepo "github.com/bitfantasy/nimo-wms/internal/catalog/repository"
	catsvc "github.com/bitfantasy/nimo-wms/internal/catalog/service"
	"github.com/bitfantasy/nimo-wms/internal/config"
	inventity "github.com/bitfantasy/nimo-wms/internal/inventory/entity"
	invhandler "github.com/bitfantasy/nimo-wms/internal/inventory/handler"
	invrepo "github.com/bitfantasy/nimo-wms/internal/inventory/repository"
	invsvc "github.com/bitfantasy/nimo-wms/internal/inventory/service"
	"github.com/bitfantasy/nimo-wms/internal/middleware"
	srmentity "github.com/bitfantasy/nimo-wms/internal/srm/entity"
	srmhandler "github.com/bitfantasy/nimo-wms/internal/srm/handler"
	srmrepo "github.com/bitfantasy/nimo-wms/internal/srm/repository"
	srmsvc "github.com/bitfantasy/nimo-wms/internal/srm/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting nimo-wms service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AutoMigrate 目录/库存/SRM实体
	if err := db.AutoMigrate(
		&catentity.Product{},
		&catentity.Brand{},
		&catentity.ProductVariant{},
		&inventity.InventoryUnit{},
		&inventity.StatusChangeLog{},
		&srmentity.Supplier{},
		&srmentity.SupplyOffer{},
		&srmentity.SupplyOfferScore{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis（排名缓存）
	rdb := initRedis(cfg.Redis)

	// 目录模块
	catalogRepo := catrepo.NewCatalogRepository(db)
	catalogSvc := catsvc.NewCatalogService(catalogRepo)
	catalogHandlers := cathandler.NewHandlers(catalogSvc)

	// 库存模块
	invRepos := invrepo.NewRepositories(db)
	lifecycleSvc := invsvc.NewLifecycleService(invRepos.Unit, invRepos.StatusLog, catalogRepo, db)
	invHandlers := invhandler.NewHandlers(lifecycleSvc)

	// SRM模块
	srmRepos := srmrepo.NewRepositories(db)
	scoringSvc := srmsvc.NewScoringService(srmRepos.Offer, srmRepos.Supplier, db, rdb)
	supplierSvc := srmsvc.NewSupplierService(srmRepos.Supplier, srmRepos.Offer, scoringSvc)
	offerSvc := srmsvc.NewOfferService(srmRepos.Offer, srmRepos.Supplier, catalogRepo, scoringSvc)
	exportSvc := srmsvc.NewExportService(srmRepos.Supplier)
	srmHandlers := srmhandler.NewHandlers(supplierSvc, offerSvc, scoringSvc, exportSvc)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, cfg, catalogHandlers, invHandlers, srmHandlers)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	catH *cathandler.Handlers,
	invH *invhandler.Handlers,
	srmH *srmhandler.Handlers,
) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")

	// 需要认证的接口
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 商品目录
		catalog := authorized.Group("/catalog")
		{
			catalog.GET("/products", catH.Catalog.ListProducts)
			catalog.POST("/products", catH.Catalog.CreateProduct)
			catalog.GET("/products/:id", catH.Catalog.GetProduct)
			catalog.GET("/products/:id/variants", catH.Catalog.ListVariants)
			catalog.POST("/variants", catH.Catalog.CreateVariant)
			catalog.GET("/variants/barcode/:barcode", catH.Catalog.GetVariantByBarcode)
			catalog.GET("/brands", catH.Catalog.ListBrands)
			catalog.POST("/brands", catH.Catalog.CreateBrand)
		}

		// 库存单件生命周期
		inventory := authorized.Group("/inventory")
		{
			inventory.GET("/units", invH.Unit.ListUnits)
			inventory.POST("/units", invH.Unit.CreateUnit)
			inventory.GET("/units/export", invH.Unit.ExportUnits)
			inventory.GET("/units/stats", invH.Unit.GetStats)
			inventory.GET("/units/:id", invH.Unit.GetUnit)
			inventory.POST("/units/:id/transition", invH.Unit.TransitionUnit)
			inventory.GET("/units/:id/history", invH.Unit.GetHistory)
			inventory.GET("/units/:id/logs", invH.Unit.ListLogs)
		}

		// 供应商与供货评分
		srm := authorized.Group("/srm")
		{
			srm.GET("/suppliers", srmH.Supplier.ListSuppliers)
			srm.POST("/suppliers", srmH.Supplier.CreateSupplier)
			srm.GET("/suppliers/export", srmH.Supplier.ExportSuppliers)
			srm.GET("/suppliers/:id", srmH.Supplier.GetSupplier)
			srm.PUT("/suppliers/:id", srmH.Supplier.UpdateSupplier)
			srm.DELETE("/suppliers/:id", middleware.RequireRole("wms_admin"), srmH.Supplier.DeleteSupplier)

			srm.GET("/offers", srmH.Offer.ListOffers)
			srm.POST("/offers", srmH.Offer.CreateOffer)
			srm.GET("/offers/:id", srmH.Offer.GetOffer)
			srm.PUT("/offers/:id", srmH.Offer.UpdateOffer)
			srm.DELETE("/offers/:id", srmH.Offer.DeleteOffer)

			srm.GET("/products/:id/ranking", srmH.Offer.GetProductRanking)
			srm.POST("/products/:id/recompute", srmH.Offer.RecomputeProduct)
		}
	}
}
