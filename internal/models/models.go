package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSON is a custom type for JSON object fields
type JSON map[string]interface{}

// Implement the driver.Valuer interface for JSON type
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Implement the sql.Scanner interface for JSON type
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case nil:
		*j = nil
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*j = nil
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// DeploymentRecord is a confirmed deployment kept in the history store
type DeploymentRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RunID           string    `gorm:"uniqueIndex;type:varchar(36)" json:"run_id"`
	ContractName    string    `gorm:"not null;index" json:"contract_name"`
	Network         string    `gorm:"not null;index" json:"network"`
	ChainID         int64     `gorm:"not null" json:"chain_id"`
	ContractAddress string    `gorm:"not null" json:"contract_address"`
	DeployerAddress string    `json:"deployer_address"`
	TransactionHash string    `gorm:"not null;uniqueIndex" json:"transaction_hash"`
	BlockNumber     *uint64   `json:"block_number"`
	GasLimit        uint64    `json:"gas_limit"`
	Metadata        JSON      `gorm:"type:text" json:"metadata"` // constructor args and run flags
	CreatedAt       time.Time `json:"created_at"`
}
