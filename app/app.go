package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"marketplace/config"
	"marketplace/logger"
	"marketplace/models"
	"marketplace/repositories"
	"marketplace/routes"
	"marketplace/services"
	"marketplace/utils"
)

// App holds the HTTP router and the connections it owns.
type App struct {
	Router  *gin.Engine
	closers []func()
}

type stores struct {
	users models.UserStore
	items models.ItemStore
	tx    models.TxManager
}

// New connects the configured backends and builds the router. PostgreSQL
// failures are fatal; an unreachable Redis falls back to in-memory sessions.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{}

	st, err := a.openStores(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	sessions := services.NewSessionManager(a.openSessionStore(ctx, cfg, log), cfg.Session.Secret, cfg.Session.TTL)

	var mailer services.Mailer
	if cfg.SMTP.Enabled() {
		svc, err := services.NewEmailService(cfg.SMTP)
		if err != nil {
			a.Close()
			return nil, err
		}
		mailer = svc
	} else {
		log.Info("SMTP not configured, welcome emails disabled")
	}

	var provider services.IdentityProvider
	if cfg.Google.Enabled() {
		provider = services.NewGoogleProvider(cfg.Google)
	} else {
		log.Info("Google credentials not configured, federated sign-in disabled")
	}

	router, err := routes.NewRouter(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Auth:     services.NewAuthService(st.users, utils.NewPasswordHasher(), sessions, mailer, log.With("component", "auth")),
		Catalog:  services.NewCatalogService(st.items, st.users, st.tx, log.With("component", "catalog")),
		Users:    services.NewUserService(st.users, st.items, st.tx, log.With("component", "users")),
		Provider: provider,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Router = router
	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users: repositories.NewMemoryUserRepository(),
			items: repositories.NewMemoryItemRepository(),
			tx:    repositories.NewMemoryTxManager(),
		}, nil
	}

	if err := config.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := config.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	log.Info("database connected")

	return &stores{
		users: repositories.NewUserRepository(pool),
		items: repositories.NewItemRepository(pool),
		tx:    repositories.NewTxManager(pool),
	}, nil
}

func (a *App) openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) models.SessionStore {
	client, err := config.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("Redis connection failed, running with in-memory sessions", "error", err)
		return repositories.NewMemorySessionStore()
	}

	a.closers = append(a.closers, func() { _ = client.Close() })
	log.Info("Redis connected")
	return repositories.NewRedisSessionStore(client)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
