package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/broker"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/consistency"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/server"

	catalogH "github.com/fekuna/omnipos-catalog-service/internal/catalog/handler"
	catalogRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/catalog/repository"
	catalogUCPkg "github.com/fekuna/omnipos-catalog-service/internal/catalog/usecase"

	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"

	orderListenerPkg "github.com/fekuna/omnipos-catalog-service/internal/order/listener"
	orderRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-catalog-service/internal/order/usecase"

	parentH "github.com/fekuna/omnipos-catalog-service/internal/parentcategory/handler"
	parentRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/parentcategory/repository"
	parentUCPkg "github.com/fekuna/omnipos-catalog-service/internal/parentcategory/usecase"

	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		appLogger.Fatal("Could not apply schema", zap.Error(err))
	}

	// 4. Initialize Redis
	var catalogCache cache.Cache = cache.Nop{}
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis, catalog reads are uncached", zap.Error(err))
	} else {
		defer redisClient.Close()
		catalogCache = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Repositories
	parentRepo := parentRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)

	// 6. Initialize UseCases
	fsMirror := mirror.NewFS(cfg.Mirror.RootDir)
	settler := consistency.NewSettler(catalogCache, appLogger)

	parentUC := parentUCPkg.NewParentCategoryUseCase(parentRepo, fsMirror, settler, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, parentRepo, fsMirror, settler, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, fsMirror, settler, appLogger)
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, parentRepo, fsMirror, catalogCache, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, catalogCache, appLogger)

	// 7. Start Order Listener
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		orderListener := orderListenerPkg.NewOrderListener(kafkaConsumer, orderUC, appLogger)
		go orderListener.Start(ctx)
	}

	// 8. Initialize Handlers
	serverCfg := &server.Config{
		Addr:      cfg.Server.HTTPPort,
		AdminRole: cfg.JWT.AdminRole,
		Debug:     logConfig.IsDevelopment,
	}
	router := server.NewRouter(serverCfg, auth.NewAuthenticator(cfg.JWT.SecretKey), appLogger,
		parentH.NewParentCategoryHandler(parentUC, appLogger),
		catH.NewCategoryHandler(catUC, appLogger),
		prodH.NewProductHandler(prodUC, appLogger),
		catalogH.NewCatalogHandler(catalogUC, appLogger),
	)

	// 9. Start HTTP Server
	srv := server.New(serverCfg, router, appLogger)
	go func() {
		if err := srv.Run(); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
