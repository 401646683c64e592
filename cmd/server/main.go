package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-pos-service/config"
	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/health"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/search"
	"github.com/fekuna/omnipos-pos-service/internal/receipt"

	cartH "github.com/fekuna/omnipos-pos-service/internal/cart/handler"
	cartRepoPkg "github.com/fekuna/omnipos-pos-service/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-pos-service/internal/cart/usecase"

	invH "github.com/fekuna/omnipos-pos-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-pos-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-pos-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-pos-service/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-pos-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-pos-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-pos-service/internal/product/usecase"

	provH "github.com/fekuna/omnipos-pos-service/internal/provider/handler"
	provRepoPkg "github.com/fekuna/omnipos-pos-service/internal/provider/repository"
	provUCPkg "github.com/fekuna/omnipos-pos-service/internal/provider/usecase"

	saleEvents "github.com/fekuna/omnipos-pos-service/internal/sale/events"
	saleH "github.com/fekuna/omnipos-pos-service/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-pos-service/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-pos-service/internal/sale/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
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

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			appLogger.Fatal("Could not apply schema", zap.Error(err))
		}
	}

	// 4. Initialize Repositories
	provRepo := provRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	cartRepo := cartRepoPkg.NewPGRepository(db)
	saleRepo := saleRepoPkg.NewPGRepository(db)
	tx := postgres.NewTransactor(db)

	// 5. Initialize Redis. The service runs without the list cache when
	// Redis is disabled or unreachable.
	var listCache cache.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, product list cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			listCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5.5 Initialize Kafka
	var events saleUCPkg.EventPublisher
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.SalesTopic,
		})
		defer producer.Close()
		events = saleEvents.NewPublisher(producer)

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.StockTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Kafka enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("sales_topic", cfg.Kafka.SalesTopic),
			zap.String("stock_topic", cfg.Kafka.StockTopic),
		)
	}

	// 5.8 Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, keyword search falls back to SQL", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize UseCases
	invUC := invUCPkg.NewInventoryUseCase(invRepo, tx, listCache, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(saleUCPkg.Deps{
		Repo:   saleRepo,
		Cart:   cartRepo,
		Stock:  invUC,
		Tx:     tx,
		Events: events,
		Cache:  listCache,
		Loc:    cfg.Store.Location(),
		Logger: appLogger,
	})
	provUC := provUCPkg.NewProviderUseCase(provRepo, listCache, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, saleUC, listCache, esClient, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartRepo, prodRepo, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6.5 Initialize Listeners
	if kafkaConsumer != nil {
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
		go invListener.Start(ctx)
	}

	// 7. Initialize Handlers
	header := receipt.Header{StoreName: cfg.Store.Name, Location: cfg.Store.Location()}
	provHandler := provH.NewProviderHandler(provUC, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, header, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	cartHandler := cartH.NewCartHandler(cartUC, appLogger)
	saleHandler := saleH.NewSaleHandler(saleUC, header, appLogger)

	// 8. gRPC health, mirrored from database pings
	healthServer := grpchealth.NewServer()
	checker := health.NewChecker(healthServer, db, 15*time.Second, appLogger)
	go checker.Run(ctx)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// 9. HTTP API
	if !logConfig.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestLogger(appLogger),
		middleware.Recovery(appLogger),
		cors.New(cors.Config{
			AllowOrigins:  cfg.Server.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}),
	)
	router.GET("/healthz", checker.Handler())

	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.TTL)
	api := router.Group("/api/v1", tokens.Authenticate())

	warehouse := api.Group("", auth.RequireRole(auth.RoleWarehouse))
	prodHandler.RegisterRoutes(warehouse.Group("/products"))
	provHandler.RegisterRoutes(warehouse.Group("/providers"))
	invHandler.RegisterRoutes(warehouse.Group("/inventory"))

	sales := api.Group("", auth.RequireRole(auth.RoleSales))
	cartHandler.RegisterRoutes(sales.Group("/cart"))
	saleHandler.RegisterRoutes(sales.Group("/sales"))

	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
