package main

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-pharmacy-service/config"
	"github.com/fekuna/omnipos-pharmacy-service/internal/appointment"
	apptRepoPkg "github.com/fekuna/omnipos-pharmacy-service/internal/appointment/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	invRepoPkg "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-pharmacy-service/internal/product/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale"
	saleRepoPkg "github.com/fekuna/omnipos-pharmacy-service/internal/sale/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/server"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/internal/user"
	userRepoPkg "github.com/fekuna/omnipos-pharmacy-service/internal/user/repository"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/mongodb"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// stores holds the repositories of the selected driver.
type stores struct {
	tx           store.Transactor
	products     product.Repository
	inventory    inventory.Repository
	sales        sale.Repository
	users        user.Repository
	appointments appointment.Repository
	check        server.Check
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverMemory:
		db, err := store.NewMemDB()
		if err != nil {
			return nil, err
		}
		log.Warn("Using in-memory store, data is lost on restart")
		return &stores{
			tx:           db,
			products:     prodRepoPkg.NewMemRepository(db),
			inventory:    invRepoPkg.NewMemRepository(db),
			sales:        saleRepoPkg.NewMemRepository(db),
			users:        userRepoPkg.NewMemRepository(db),
			appointments: apptRepoPkg.NewMemRepository(db),
			check:        func(context.Context) error { return nil },
			close:        func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*stores, error) {
	client, err := mongodb.NewMongoClient(ctx, &mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)
	log.Info("Connected to MongoDB", zap.String("db_name", cfg.Mongo.Database))

	prodRepo := prodRepoPkg.NewMongoRepository(db)
	userRepo := userRepoPkg.NewMongoRepository(db)
	apptRepo := apptRepoPkg.NewMongoRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"products":     prodRepo.EnsureIndexes,
		"users":        userRepo.EnsureIndexes,
		"appointments": apptRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	return &stores{
		tx:           mongodb.NewTransactor(client),
		products:     prodRepo,
		inventory:    invRepoPkg.NewMongoRepository(db),
		sales:        saleRepoPkg.NewMongoRepository(db),
		users:        userRepo,
		appointments: apptRepo,
		check: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*stores, error) {
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &stores{
		tx:           postgres.NewTransactor(db),
		products:     prodRepoPkg.NewPGRepository(db),
		inventory:    invRepoPkg.NewPGRepository(db),
		sales:        saleRepoPkg.NewPGRepository(db),
		users:        userRepoPkg.NewPGRepository(db),
		appointments: apptRepoPkg.NewPGRepository(db),
		check:        db.PingContext,
		close:        func() { _ = db.Close() },
	}, nil
}
