package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/config"
	"github.com/KenTheWhale/unisew-partner/internal/middleware"
	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/handler"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/KenTheWhale/unisew-partner/internal/shared/mailer"
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
	cfg, err := config.Load(os.Getenv("UNISEW_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting unisew-partner service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Partner{},
		&entity.Wallet{},
		&entity.WalletTransaction{},
		&entity.Phase{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.MilestoneStage{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 初始化Redis
	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis not reachable", zap.Error(err))
	}

	// 组装仓库、服务、处理器
	repos := repository.NewRepositories(db)
	mail := mailer.New(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	services := service.NewServices(repos, rdb, cfg, mail)
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
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
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.GET("/confirm", h.Auth.Confirm)
			auth.POST("/confirm/resend", h.Auth.ResendConfirmation)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// 行政区划与银行目录 (注册页面使用，无需登录)
		shipping := v1.Group("/shipping")
		{
			shipping.GET("/provinces", h.Shipping.Provinces)
			shipping.GET("/districts", h.Shipping.Districts)
			shipping.GET("/wards", h.Shipping.Wards)
		}
		v1.GET("/banks", h.Wallet.ListBanks)

		// 需要登录
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			// 工厂档案
			authorized.GET("/profile", h.Profile.Get)
			authorized.PUT("/profile", h.Profile.Update)
			authorized.POST("/profile/avatar", h.Profile.UploadAvatar)

			// 工序目录
			authorized.GET("/phases", h.Phase.List)
			authorized.POST("/phases", h.Phase.Create)
			authorized.PUT("/phases/:id", h.Phase.Update)
			authorized.DELETE("/phases/:id", h.Phase.Delete)

			// 订单
			authorized.GET("/orders", h.Order.List)
			authorized.GET("/orders/:id", h.Order.Get)

			// 里程碑排期
			authorized.GET("/orders/:id/milestone/window", h.Milestone.GetWindow)
			authorized.GET("/orders/:id/milestone/leadtime", h.Milestone.GetLeadTime)
			authorized.POST("/orders/:id/milestone/draft", h.Milestone.BuildDraft)
			authorized.POST("/orders/:id/milestone/reorder", h.Milestone.Reorder)
			authorized.POST("/orders/:id/milestone", h.Milestone.Assign)
			authorized.PATCH("/milestone/stages/:stageId/status", h.Milestone.UpdateStageStatus)

			// 运费预估
			authorized.POST("/shipping/fee", h.Shipping.EstimateFee)

			// 钱包
			authorized.GET("/wallet", h.Wallet.Get)
			authorized.GET("/wallet/transactions", h.Wallet.ListTransactions)
			authorized.PUT("/wallet/bank", h.Wallet.UpdateBank)
		}
	}
}
