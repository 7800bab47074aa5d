package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	v1 "github.com/vendora/taxengine/internal/api/v1"
	"github.com/vendora/taxengine/internal/cache"
	"github.com/vendora/taxengine/internal/config"
	"github.com/vendora/taxengine/internal/domain/provider"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	"github.com/vendora/taxengine/internal/httpclient"
	"github.com/vendora/taxengine/internal/logger"
	"github.com/vendora/taxengine/internal/provider/taxjar"
	"github.com/vendora/taxengine/internal/repository/memory"
	"github.com/vendora/taxengine/internal/router"
	"github.com/vendora/taxengine/internal/service"
	"github.com/vendora/taxengine/internal/types"
	"github.com/vendora/taxengine/internal/validator"
)

// @title Tax Engine API
// @version 1.0
// @description Transaction-time tax determination service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	_ = godotenv.Load()

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,
			provideCache,

			// HTTP Client
			provideHTTPClient,

			// Reference data
			types.NewJurisdictionRegistry,

			// Repositories
			provideTaxRateRepository,

			// External tax provider
			provideTaxProvider,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewTaxService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(c *cache.InMemoryCache) cache.Cache {
	return c
}

// The outbound client sits on the checkout path; its timeout follows the
// provider config rather than the 30s default
func provideHTTPClient(cfg *config.Configuration) httpclient.Client {
	return httpclient.NewClientWithTimeout(cfg.Provider.Timeout())
}

func provideTaxRateRepository(log *logger.Logger, c cache.Cache) taxrate.Repository {
	return memory.NewTaxRateStore(log, c)
}

func provideTaxProvider(client httpclient.Client, cfg *config.Configuration, log *logger.Logger) provider.Calculator {
	return taxjar.NewClient(client, cfg, log)
}

type handlers struct {
	Tax    *v1.TaxHandler
	Health *v1.HealthHandler
}

func provideHandlers(taxService service.TaxService, log *logger.Logger) handlers {
	return handlers{
		Tax:    v1.NewTaxHandler(taxService, log),
		Health: v1.NewHealthHandler(),
	}
}

func provideRouter(h handlers) *gin.Engine {
	return router.SetupRouter(h.Tax, h.Health)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
