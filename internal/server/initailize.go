package server

import (
	"context"
	"fmt"
	"log"

	"github.com/rxtech-lab/cryptogene-deployer/internal/config"
	"github.com/rxtech-lab/cryptogene-deployer/internal/hooks"
	"github.com/rxtech-lab/cryptogene-deployer/internal/services"
)

// Services holds everything a deployment run needs.
type Services struct {
	Registry   services.ContractRegistry
	Chain      services.ChainClient
	DB         services.DBService
	History    services.HistoryService
	Hooks      services.HookService
	Deployment services.DeploymentService
}

// Close releases the chain connection and the history database.
func (s *Services) Close() {
	if s.Chain != nil {
		s.Chain.Close()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf("Failed to close history database: %v", err)
		}
	}
}

// InitializeRegistry loads the embedded artifacts and, when configured,
// compiles and registers the contract source file.
func InitializeRegistry(cfg *config.Config) (services.ContractRegistry, error) {
	registry, err := services.NewContractRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load contract artifacts: %w", err)
	}

	if cfg.ContractSource != "" {
		names, err := registry.RegisterSourceFile(cfg.SolcVersion, cfg.ContractSource)
		if err != nil {
			return nil, err
		}
		log.Printf("Compiled %s with solc %s: %v", cfg.ContractSource, cfg.SolcVersion, names)
	}

	return registry, nil
}

// InitializeHistory opens the history store. It returns nil services when
// no history database is configured.
func InitializeHistory(cfg *config.Config) (services.DBService, services.HistoryService, error) {
	if cfg.HistoryDSN == "" {
		return nil, nil, nil
	}

	dbService, err := services.NewDBService(cfg.HistoryDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return dbService, services.NewHistoryService(dbService.GetDB()), nil
}

// InitializeHooks returns the hooks enabled by the configuration.
func InitializeHooks(cfg *config.Config, registry services.ContractRegistry, history services.HistoryService) []services.Hook {
	var enabled []services.Hook
	if history != nil {
		enabled = append(enabled, hooks.NewHistoryHook(history, registry, cfg))
	}
	return enabled
}

func RegisterHooks(hookService services.HookService, enabled ...services.Hook) {
	for _, hook := range enabled {
		if err := hookService.AddHook(hook); err != nil {
			log.Printf("Failed to register hook: %v", err)
		}
	}
}

func InitializeServices(ctx context.Context, cfg *config.Config, pretty bool) (*Services, error) {
	registry, err := InitializeRegistry(cfg)
	if err != nil {
		return nil, err
	}

	dbService, history, err := InitializeHistory(cfg)
	if err != nil {
		return nil, err
	}

	var chainOpts []services.ChainClientOption
	if cfg.GasLimit > 0 {
		chainOpts = append(chainOpts, services.WithGasLimit(cfg.GasLimit))
	}
	chain, err := services.NewEthChainClient(ctx, cfg.Network, chainOpts...)
	if err != nil {
		if dbService != nil {
			dbService.Close()
		}
		return nil, err
	}

	hookService := services.NewHookService()
	RegisterHooks(hookService, InitializeHooks(cfg, registry, history)...)

	return &Services{
		Registry:   registry,
		Chain:      chain,
		DB:         dbService,
		History:    history,
		Hooks:      hookService,
		Deployment: services.NewDeploymentService(cfg, chain, registry, services.WithPrettyOutput(pretty), services.WithHooks(hookService)),
	}, nil
}
