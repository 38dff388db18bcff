package models

import (
	"math/big"
	"time"
)

// DeploymentRequest names the contract to deploy and the network to deploy it to.
type DeploymentRequest struct {
	ContractName string `json:"contract_name" validate:"required"`
	NetworkID    string `json:"network_id" validate:"required"`
}

// Signer is the account paying for the deployment. A nil Balance means the
// balance could not be read.
type Signer struct {
	Address string
	Balance *big.Int
}

// PendingDeployment is a submitted deployment transaction that has not been
// confirmed yet. The contract address and block are unknown at this point.
type PendingDeployment struct {
	ContractName string
	TxHash       string
	From         string
	Nonce        uint64
	GasLimit     uint64
	SubmittedAt  time.Time
}

// Confirmation is what the chain reports once a deployment transaction has
// been mined successfully.
type Confirmation struct {
	TxHash          string
	ContractAddress string
	BlockNumber     *uint64 // nil when the node has not placed the tx in a block yet
}

type DeploymentFlags struct {
	Gasless      bool
	RelayerLabel *string
}

// DeploymentResult is the outcome of a confirmed deployment.
type DeploymentResult struct {
	ContractName    string
	DeployedAddress string
	TransactionHash string
	NetworkLabel    string
	BlockNumber     *uint64
	GasLimit        uint64
	Flags           DeploymentFlags
}

// NewDeploymentResult builds a result from a confirmation. Address and hash
// come from the confirmation only, never from the pending handle.
func NewDeploymentResult(pending *PendingDeployment, confirmation *Confirmation, networkLabel string, flags DeploymentFlags) *DeploymentResult {
	return &DeploymentResult{
		ContractName:    pending.ContractName,
		DeployedAddress: confirmation.ContractAddress,
		TransactionHash: confirmation.TxHash,
		NetworkLabel:    networkLabel,
		BlockNumber:     confirmation.BlockNumber,
		GasLimit:        pending.GasLimit,
		Flags:           flags,
	}
}
