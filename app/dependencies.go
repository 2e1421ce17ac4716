package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/config"
	"github.com/bratiwka/llm-gateway/handlers"
	"github.com/bratiwka/llm-gateway/middleware"
	"github.com/bratiwka/llm-gateway/repositories"
	"github.com/bratiwka/llm-gateway/repositories/postgres"
	"github.com/bratiwka/llm-gateway/services/dispatch"
	"github.com/bratiwka/llm-gateway/services/providers"
	"github.com/bratiwka/llm-gateway/services/quota"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Accounts      repositories.AccountRepository
	Conversations repositories.ConversationRepository
	TxManager     repositories.TransactionManager

	// Domain services
	Registry   *providers.Registry
	Quota      *quota.Service
	Dispatcher *dispatch.Dispatcher

	// HTTP layer
	AuthMiddleware *middleware.AuthMiddleware
	ChatHandler    *handlers.ChatHandler
	ModelsHandler  *handlers.ModelsHandler
	AccountHandler *handlers.AccountHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	db, err := postgres.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	repos := postgres.NewRepositories(db, logger)
	deps.Accounts = repos.Accounts
	deps.Conversations = repos.Conversations
	deps.TxManager = postgres.NewTransactionManager(db, logger)

	deps.Registry = providers.NewRegistry(providers.DefaultCatalog(cfg.Providers))
	if deps.Registry.Len() == 0 {
		logger.Warn("no provider credentials configured, model catalog is empty")
	} else {
		logger.Info("provider registry initialized",
			zap.Int("models", deps.Registry.Len()))
	}

	deps.Quota = quota.NewService(deps.Accounts, cfg.Gateway.QuotaPolicy, logger)

	upstream := dispatch.NewHTTPUpstreamClient(cfg.Providers.Timeout, logger)
	deps.Dispatcher = dispatch.NewDispatcher(
		deps.Registry,
		deps.Quota,
		upstream,
		deps.Conversations,
		deps.TxManager,
		logger,
	)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.Accounts, cfg.Gateway, logger)
	deps.ChatHandler = handlers.NewChatHandler(deps.Dispatcher, logger)
	deps.ModelsHandler = handlers.NewModelsHandler(deps.Registry, logger)
	deps.AccountHandler = handlers.NewAccountHandler(logger)
	deps.HealthHandler = handlers.NewHealthHandler(db, logger)

	logger.Info("all dependencies initialized successfully",
		zap.String("auth_mode", string(cfg.Gateway.AuthMode)),
		zap.String("quota_policy", string(cfg.Gateway.QuotaPolicy)))

	return deps, nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
