package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ipa-digital/safra-backend/api/routes"
	"github.com/ipa-digital/safra-backend/internal/agents"
	"github.com/ipa-digital/safra-backend/internal/auth"
	"github.com/ipa-digital/safra-backend/internal/orders"
	"github.com/ipa-digital/safra-backend/internal/products"
	"github.com/ipa-digital/safra-backend/internal/requests"
	"github.com/ipa-digital/safra-backend/internal/seeds"
	"github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/auth/session"
	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/db"
	"github.com/ipa-digital/safra-backend/pkg/logger"
	"github.com/ipa-digital/safra-backend/pkg/metrics"
	"github.com/ipa-digital/safra-backend/pkg/migrate"
	"github.com/ipa-digital/safra-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	agentsRepo := agents.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	seedsRepo := seeds.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	requestsRepo := requests.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{
		Repo:           usersRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	agentsService, err := agents.NewService(agents.ServiceParams{
		Repo:           agentsRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create agent service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.ServiceParams{Repo: productsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	seedsService, err := seeds.NewService(seeds.ServiceParams{Repo: seedsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create seed service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Tx:              dbClient,
		Orders:          ordersRepo,
		Users:           usersRepo,
		Products:        productsRepo,
		MaxCodeAttempts: cfg.Tracking.MaxCodeAttempts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(requests.ServiceParams{
		Requests:        requestsRepo,
		Agents:          agentsRepo,
		Users:           usersRepo,
		MaxCodeAttempts: cfg.Tracking.MaxCodeAttempts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Agents:   agentsRepo,
		Users:    usersRepo,
		Signup:   usersService,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, routes.Services{
			Auth:     authService,
			Users:    usersService,
			Agents:   agentsService,
			Products: productsService,
			Seeds:    seedsService,
			Orders:   ordersService,
			Requests: requestsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
