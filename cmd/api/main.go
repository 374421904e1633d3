package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/kardzapp/kardz-backend/api/routes"
	"github.com/kardzapp/kardz-backend/internal/auction"
	"github.com/kardzapp/kardz-backend/internal/categories"
	"github.com/kardzapp/kardz-backend/internal/checkout"
	"github.com/kardzapp/kardz-backend/internal/events"
	"github.com/kardzapp/kardz-backend/internal/orders"
	"github.com/kardzapp/kardz-backend/internal/products"
	"github.com/kardzapp/kardz-backend/internal/users"
	"github.com/kardzapp/kardz-backend/pkg/config"
	"github.com/kardzapp/kardz-backend/pkg/db"
	"github.com/kardzapp/kardz-backend/pkg/logger"
	"github.com/kardzapp/kardz-backend/pkg/migrate"
	"github.com/kardzapp/kardz-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	svcs, err := buildServices(dbClient, cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(dbClient *db.Client, cfg *config.Config, logg *logger.Logger) (routes.Services, error) {
	conn := dbClient.DB()

	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	eventRepo := events.NewRepository(conn)

	userSvc, err := users.NewService(userRepo, cfg.Admin.PrimaryEmail)
	if err != nil {
		return routes.Services{}, err
	}
	productSvc, err := products.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	categorySvc, err := categories.NewService(conn, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	auctionSvc, err := auction.NewService(dbClient, logg)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutSvc, err := checkout.NewService(dbClient, logg)
	if err != nil {
		return routes.Services{}, err
	}
	orderSvc, err := orders.NewService(orderRepo, userRepo)
	if err != nil {
		return routes.Services{}, err
	}
	eventSvc, err := events.NewService(eventRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Users:      userSvc,
		Products:   productSvc,
		Categories: categorySvc,
		Auction:    auctionSvc,
		Checkout:   checkoutSvc,
		Orders:     orderSvc,
		Events:     eventSvc,
	}, nil
}
