package services

import (
	"fmt"

	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
)

type HookService interface {
	AddHook(hook Hook) error
	OnDeploymentConfirmed(pending *models.PendingDeployment, result *models.DeploymentResult) error
}

type hookService struct {
	hooks []Hook
}

func NewHookService() HookService {
	return &hookService{
		hooks: []Hook{},
	}
}

func (h *hookService) AddHook(hook Hook) error {
	if hook == nil {
		return fmt.Errorf("hook is nil")
	}
	h.hooks = append(h.hooks, hook)
	return nil
}

// OnDeploymentConfirmed runs every hook that handles the deployed contract,
// stopping at the first error.
func (h *hookService) OnDeploymentConfirmed(pending *models.PendingDeployment, result *models.DeploymentResult) error {
	for _, hook := range h.hooks {
		if hook.CanHandle(result.ContractName) {
			if err := hook.OnDeploymentConfirmed(pending, result); err != nil {
				return err
			}
		}
	}
	return nil
}
