package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-pharmacy-service/config"
	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale"
	"github.com/fekuna/omnipos-pharmacy-service/internal/server"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/broker"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/cache"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"

	apptH "github.com/fekuna/omnipos-pharmacy-service/internal/appointment/handler"
	apptUCPkg "github.com/fekuna/omnipos-pharmacy-service/internal/appointment/usecase"

	invH "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/listener"
	invUCPkg "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-pharmacy-service/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-pharmacy-service/internal/product/usecase"

	saleH "github.com/fekuna/omnipos-pharmacy-service/internal/sale/handler"
	saleUCPkg "github.com/fekuna/omnipos-pharmacy-service/internal/sale/usecase"

	userH "github.com/fekuna/omnipos-pharmacy-service/internal/user/handler"
	userUCPkg "github.com/fekuna/omnipos-pharmacy-service/internal/user/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
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
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
	} else {
		logConfig.Encoding = "json"
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Initialize i18n
	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Connect to Database
	st, err := openStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer st.close()
	checks := map[string]server.Check{cfg.Database.Driver: st.check}

	// 5. Initialize Redis
	var idempotency sale.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, Idempotency-Key is ignored", zap.Error(err))
		} else {
			defer redisClient.Close()
			idempotency = redisClient
			checks["redis"] = redisClient.Ping
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Initialize Kafka Producer
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()
		publisher = events.NewKafkaPublisher(producer)
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))
	}

	// 7. Initialize UseCases
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	prodUC := prodUCPkg.NewProductUseCase(st.products, prodUCPkg.Options{
		DefaultReorderThreshold: cfg.Inventory.DefaultReorderThreshold,
	}, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(st.inventory, st.tx, publisher, invUCPkg.Options{
		ExpiryWindowDays:   cfg.Inventory.ExpiryWindowDays,
		MaxConflictRetries: cfg.Inventory.MaxConflictRetries,
	}, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(st.sales, st.inventory, st.tx, publisher, idempotency, saleUCPkg.Options{
		MaxConflictRetries: cfg.Inventory.MaxConflictRetries,
		IdempotencyTTL:     cfg.Inventory.IdempotencyTTL,
	}, appLogger)
	userUC := userUCPkg.NewUserUseCase(st.users, tokens, userUCPkg.Options{}, appLogger)
	apptUC := apptUCPkg.NewAppointmentUseCase(st.appointments, nil, appLogger)

	// 8. Initialize Listeners
	if cfg.Kafka.ConsumerEnabled && len(cfg.Kafka.Brokers) > 0 {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.RestockTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		go invListenerPkg.NewRestockListener(consumer, invUC, appLogger).Start(ctx)
		appLogger.Info("Restock listener started", zap.String("topic", cfg.Kafka.RestockTopic))
	}

	// 9. Initialize Handlers
	router := server.NewRouter(server.Deps{
		Handlers: server.Handlers{
			Product:     prodH.NewProductHandler(prodUC, appLogger),
			Inventory:   invH.NewInventoryHandler(invUC, appLogger),
			Sale:        saleH.NewSaleHandler(saleUC, appLogger),
			User:        userH.NewUserHandler(userUC, appLogger),
			Appointment: apptH.NewAppointmentHandler(apptUC, appLogger),
		},
		Tokens:     tokens,
		Translator: translator,
		Logger:     appLogger,
		Checks:     checks,
	})

	// 10. Start gRPC health server
	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	grpcServer, healthServer := server.NewGRPCServer(appLogger)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// 11. Start HTTP server
	httpServer := &http.Server{
		Addr:         withColon(cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr), zap.String("driver", cfg.Database.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
