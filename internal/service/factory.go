package service

import (
	"github.com/vendora/taxengine/internal/config"
	"github.com/vendora/taxengine/internal/domain/provider"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	"github.com/vendora/taxengine/internal/httpclient"
	"github.com/vendora/taxengine/internal/logger"
	"github.com/vendora/taxengine/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	TaxRateRepo taxrate.Repository

	// External provider for US destinations
	TaxProvider provider.Calculator

	// Reference data handed in at construction so calculations stay pure
	Jurisdictions *types.JurisdictionRegistry
	Rollout       types.RolloutConfig

	// http client
	Client httpclient.Client
}

// NewServiceParams wires the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	taxRateRepo taxrate.Repository,
	taxProvider provider.Calculator,
	jurisdictions *types.JurisdictionRegistry,
	client httpclient.Client,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		TaxRateRepo:   taxRateRepo,
		TaxProvider:   taxProvider,
		Jurisdictions: jurisdictions,
		Rollout:       config.Rollout,
		Client:        client,
	}
}
