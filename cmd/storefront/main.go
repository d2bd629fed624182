package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/wyfcoding/zenstore/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/zenstore/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/zenstore/internal/catalog/interfaces/http"
	notificationapp "github.com/wyfcoding/zenstore/internal/notification/application"
	notificationdomain "github.com/wyfcoding/zenstore/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/zenstore/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/zenstore/internal/notification/infrastructure/sender"
	orderapp "github.com/wyfcoding/zenstore/internal/order/application"
	orderdomain "github.com/wyfcoding/zenstore/internal/order/domain"
	"github.com/wyfcoding/zenstore/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/zenstore/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/zenstore/internal/order/interfaces/http"
	reviewapp "github.com/wyfcoding/zenstore/internal/review/application"
	reviewdomain "github.com/wyfcoding/zenstore/internal/review/domain"
	reviewmysql "github.com/wyfcoding/zenstore/internal/review/infrastructure/persistence/mysql"
	reviewhttp "github.com/wyfcoding/zenstore/internal/review/interfaces/http"
	userapp "github.com/wyfcoding/zenstore/internal/user/application"
	userdomain "github.com/wyfcoding/zenstore/internal/user/domain"
	usermysql "github.com/wyfcoding/zenstore/internal/user/infrastructure/persistence/mysql"
	userhttp "github.com/wyfcoding/zenstore/internal/user/interfaces/http"
	wishlistapp "github.com/wyfcoding/zenstore/internal/wishlist/application"
	wishlistdomain "github.com/wyfcoding/zenstore/internal/wishlist/domain"
	wishlistmysql "github.com/wyfcoding/zenstore/internal/wishlist/infrastructure/persistence/mysql"
	wishlisthttp "github.com/wyfcoding/zenstore/internal/wishlist/interfaces/http"
	"github.com/wyfcoding/zenstore/pkg/cache"
	"github.com/wyfcoding/zenstore/pkg/config"
	"github.com/wyfcoding/zenstore/pkg/db"
	"github.com/wyfcoding/zenstore/pkg/logger"
	"github.com/wyfcoding/zenstore/pkg/metrics"
	"github.com/wyfcoding/zenstore/pkg/middleware"
	"github.com/wyfcoding/zenstore/pkg/mq"
	"github.com/wyfcoding/zenstore/pkg/ratelimit"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}

	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		panic(fmt.Sprintf("connect db failed: %v", err))
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&userdomain.User{},
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&reviewdomain.Review{},
		&wishlistdomain.Item{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&notificationdomain.Notification{},
	); err != nil {
		panic(fmt.Sprintf("migrate failed: %v", err))
	}

	// 仓储
	userRepo := usermysql.NewUserRepository(database.DB)
	catalogRepo := catalogmysql.NewCatalogRepository(database.DB)
	reviewRepo := reviewmysql.NewReviewRepository(database.DB)
	wishlistRepo := wishlistmysql.NewWishlistRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	notificationRepo := notificationmysql.NewNotificationRepository(database.DB)

	// Redis：目录缓存与凭据接口限流，可选
	var redisCache *cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err = cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			panic(fmt.Sprintf("connect redis failed: %v", err))
		}
		defer redisCache.Close()
	}

	// 通知投递：未配置 SMTP 时退化为日志记录
	var mailSender notificationdomain.Sender
	if cfg.SMTP.Host != "" {
		mailSender = sender.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		mailSender = sender.NewMockSender()
	}

	// 订单完成事件，可选
	var eventPublisher orderdomain.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			panic(fmt.Sprintf("create kafka producer failed: %v", err))
		}
		defer producer.Close()
		eventPublisher = messaging.NewKafkaPublisher(producer, cfg.Kafka.OrderTopic)
	}

	// 应用服务
	userService := userapp.NewUserService(userRepo)
	wishlistService := wishlistapp.NewWishlistService(wishlistRepo)
	catalogService := catalogapp.NewCatalogService(catalogRepo, wishlistService)
	if redisCache != nil {
		catalogService.WithCache(redisCache)
	}
	reviewService := reviewapp.NewReviewService(reviewRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo, mailSender)
	orderService := orderapp.NewOrderService(orderRepo, catalogService, userService, notificationService, eventPublisher)

	sessions := middleware.NewSessions(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.SessionTTL)*time.Hour)
	appMetrics := metrics.New(cfg.ServiceName)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		appMetrics.GinMiddleware(),
		sessions.Identify(),
	)

	engine.GET("/sys/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "UP",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})
	engine.GET("/metrics", appMetrics.Handler())

	// 登录/注册限流，仅在 Redis 可用时启用
	var credentialThrottle []gin.HandlerFunc
	if redisCache != nil {
		limiter := ratelimit.NewRedisLimiter(redisCache.Client())
		credentialThrottle = append(credentialThrottle, middleware.Throttle(limiter, ratelimit.Limit{
			Rate:   10,
			Period: time.Minute,
			Burst:  10,
		}))
	}

	userhttp.NewUserHandler(userService, orderService, orderService, sessions).RegisterRoutes(engine, credentialThrottle...)
	cataloghttp.NewCatalogHandler(catalogService, reviewService, orderService, orderService).RegisterRoutes(engine)
	reviewhttp.NewReviewHandler(reviewService).RegisterRoutes(engine, sessions)
	wishlisthttp.NewWishlistHandler(wishlistService, orderService).RegisterRoutes(engine, sessions)
	orderhttp.NewOrderHandler(orderService, userService).WithMetrics(appMetrics).RegisterRoutes(engine, sessions)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(context.Background(), "HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(context.Background(), "HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(context.Background(), "shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error(ctx, "server shutdown failed", "error", err)
	}
}
