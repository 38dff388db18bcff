package services

import "github.com/rxtech-lab/cryptogene-deployer/internal/models"

// Hook is used to perform actions when a deployment is confirmed based on the deployed contract
type Hook interface {
	// CanHandle is used to check if the hook can handle deployments of the contract
	CanHandle(contractName string) bool
	// OnDeploymentConfirmed is called once the deployment is mined and successful
	OnDeploymentConfirmed(pending *models.PendingDeployment, result *models.DeploymentResult) error
}
