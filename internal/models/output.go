package models

import (
	"encoding/json"
	"strconv"
)

// DeploymentOutput is the JSON object printed on stdout after a successful
// deployment. Field order and names are fixed.
type DeploymentOutput struct {
	Contract    string  `json:"contract"`
	Address     string  `json:"address"`
	TxHash      string  `json:"txHash"`
	Network     string  `json:"network"`
	BlockNumber *uint64 `json:"blockNumber"`
	// GasUsed holds the gas LIMIT of the deployment transaction, not the gas
	// consumed. Consumers already parse this key, so the name stays.
	GasUsed  string `json:"gasUsed"`
	Gasless  bool   `json:"gasless"`
	Biconomy string `json:"biconomy"`
}

// Output converts the result to its wire shape.
func (r *DeploymentResult) Output() DeploymentOutput {
	biconomy := "disabled"
	if r.Flags.RelayerLabel != nil {
		biconomy = *r.Flags.RelayerLabel
	}
	return DeploymentOutput{
		Contract:    r.ContractName,
		Address:     r.DeployedAddress,
		TxHash:      r.TransactionHash,
		Network:     r.NetworkLabel,
		BlockNumber: r.BlockNumber,
		GasUsed:     strconv.FormatUint(r.GasLimit, 10),
		Gasless:     r.Flags.Gasless,
		Biconomy:    biconomy,
	}
}

// MarshalJSON renders the result in the output shape.
func (r *DeploymentResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Output())
}
