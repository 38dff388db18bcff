package hooks

import (
	"log"

	"github.com/rxtech-lab/cryptogene-deployer/internal/config"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/rxtech-lab/cryptogene-deployer/internal/services"
	"github.com/rxtech-lab/cryptogene-deployer/internal/utils"
)

// HistoryHook stores every confirmed deployment in the history database.
type HistoryHook struct {
	history  services.HistoryService
	registry services.ContractRegistry
	cfg      *config.Config
}

// CanHandle implements Hook.
func (h *HistoryHook) CanHandle(contractName string) bool {
	return true
}

// OnDeploymentConfirmed implements Hook.
func (h *HistoryHook) OnDeploymentConfirmed(pending *models.PendingDeployment, result *models.DeploymentResult) error {
	record := &models.DeploymentRecord{
		ContractName:    result.ContractName,
		Network:         result.NetworkLabel,
		ChainID:         h.cfg.Network.ChainID,
		ContractAddress: result.DeployedAddress,
		DeployerAddress: pending.From,
		TransactionHash: result.TransactionHash,
		BlockNumber:     result.BlockNumber,
		GasLimit:        result.GasLimit,
		Metadata:        h.metadata(result),
	}
	return h.history.RecordDeployment(record)
}

func (h *HistoryHook) metadata(result *models.DeploymentResult) models.JSON {
	metadata := models.JSON{
		"gasless":  result.Flags.Gasless,
		"biconomy": result.Output().Biconomy,
	}
	if len(h.cfg.ConstructorArgs) == 0 {
		return metadata
	}

	artifact, err := h.registry.Lookup(result.ContractName)
	if err != nil {
		return metadata
	}
	args, err := utils.ConstructorArgsToMap(h.cfg.ConstructorArgs, artifact.ABI)
	if err != nil {
		log.Printf("Failed to record constructor arguments: %v", err)
		return metadata
	}
	metadata["constructor_args"] = args
	return metadata
}

func NewHistoryHook(history services.HistoryService, registry services.ContractRegistry, cfg *config.Config) services.Hook {
	return &HistoryHook{
		history:  history,
		registry: registry,
		cfg:      cfg,
	}
}
