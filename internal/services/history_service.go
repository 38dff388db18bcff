package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/rxtech-lab/cryptogene-deployer/internal/utils"
	"gorm.io/gorm"
)

type HistoryService interface {
	RecordDeployment(record *models.DeploymentRecord) error
	ListDeployments() ([]models.DeploymentRecord, error)
	ListDeploymentsByNetwork(network string) ([]models.DeploymentRecord, error)
	GetDeploymentByTransactionHash(txHash string) (*models.DeploymentRecord, error)
	GetDeploymentByContractAddress(contractAddress string) (*models.DeploymentRecord, error)
}

// historyService stores confirmed deployments
type historyService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(db *gorm.DB) HistoryService {
	return &historyService{db: db}
}

// RecordDeployment stores a confirmed deployment, assigning a run ID when missing
func (s *historyService) RecordDeployment(record *models.DeploymentRecord) error {
	if record.RunID == "" {
		record.RunID = uuid.New().String()
	}
	return s.db.Create(record).Error
}

// ListDeployments returns all deployments, newest first
func (s *historyService) ListDeployments() ([]models.DeploymentRecord, error) {
	var records []models.DeploymentRecord
	err := s.db.Order("id desc").Find(&records).Error
	return records, err
}

// ListDeploymentsByNetwork returns the deployments made on one network, newest first
func (s *historyService) ListDeploymentsByNetwork(network string) ([]models.DeploymentRecord, error) {
	var records []models.DeploymentRecord
	err := s.db.Where("network = ?", network).Order("id desc").Find(&records).Error
	return records, err
}

// GetDeploymentByTransactionHash returns a deployment by its transaction hash
func (s *historyService) GetDeploymentByTransactionHash(txHash string) (*models.DeploymentRecord, error) {
	var record models.DeploymentRecord
	err := s.db.Where("transaction_hash = ?", txHash).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetDeploymentByContractAddress returns a deployment by its contract address
func (s *historyService) GetDeploymentByContractAddress(contractAddress string) (*models.DeploymentRecord, error) {
	if !utils.IsValidEthereumAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address: %s", contractAddress)
	}
	var record models.DeploymentRecord
	err := s.db.Where("LOWER(contract_address) = LOWER(?)", contractAddress).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
