package services

import (
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type HistoryServiceTestSuite struct {
	suite.Suite
	db      DBService
	history HistoryService
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	db, err := NewSqliteDBService(filepath.Join(suite.T().TempDir(), "history.db"))
	suite.Require().NoError(err)
	suite.db = db
	suite.history = NewHistoryService(db.GetDB())
}

func (suite *HistoryServiceTestSuite) TearDownTest() {
	suite.Require().NoError(suite.db.Close())
}

func (suite *HistoryServiceTestSuite) record(network, txHash, address string) *models.DeploymentRecord {
	block := uint64(42)
	record := &models.DeploymentRecord{
		ContractName:    "Cryptogene",
		Network:         network,
		ChainID:         245022926,
		ContractAddress: address,
		DeployerAddress: "0x1111111111111111111111111111111111111111",
		TransactionHash: txHash,
		BlockNumber:     &block,
		GasLimit:        3000000,
		Metadata:        models.JSON{"gasless": true},
	}
	suite.Require().NoError(suite.history.RecordDeployment(record))
	return record
}

func (suite *HistoryServiceTestSuite) TestRecordAssignsRunID() {
	record := suite.record("neon-devnet", "0x01", "0x2222222222222222222222222222222222222222")
	suite.NotZero(record.ID)
	suite.Len(record.RunID, 36)

	explicit := &models.DeploymentRecord{RunID: "run-1", ContractName: "Cryptogene", Network: "sepolia", TransactionHash: "0x02"}
	suite.Require().NoError(suite.history.RecordDeployment(explicit))
	suite.Equal("run-1", explicit.RunID)
}

func (suite *HistoryServiceTestSuite) TestDuplicateTransactionHash() {
	suite.record("neon-devnet", "0x01", "0x2222222222222222222222222222222222222222")
	err := suite.history.RecordDeployment(&models.DeploymentRecord{ContractName: "Cryptogene", Network: "neon-devnet", TransactionHash: "0x01"})
	suite.Error(err)
}

func (suite *HistoryServiceTestSuite) TestListDeployments() {
	suite.record("neon-devnet", "0x01", "0x2222222222222222222222222222222222222222")
	suite.record("sepolia", "0x02", "0x3333333333333333333333333333333333333333")
	suite.record("neon-devnet", "0x03", "0x4444444444444444444444444444444444444444")

	all, err := suite.history.ListDeployments()
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal("0x03", all[0].TransactionHash)
	suite.Equal("0x01", all[2].TransactionHash)

	neon, err := suite.history.ListDeploymentsByNetwork("neon-devnet")
	suite.Require().NoError(err)
	suite.Len(neon, 2)

	none, err := suite.history.ListDeploymentsByNetwork("base-sepolia")
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *HistoryServiceTestSuite) TestGetDeploymentByTransactionHash() {
	suite.record("neon-devnet", "0x01", "0x2222222222222222222222222222222222222222")

	record, err := suite.history.GetDeploymentByTransactionHash("0x01")
	suite.Require().NoError(err)
	suite.Equal("neon-devnet", record.Network)
	suite.Require().NotNil(record.BlockNumber)
	suite.Equal(uint64(42), *record.BlockNumber)
	suite.Equal(true, record.Metadata["gasless"])

	_, err = suite.history.GetDeploymentByTransactionHash("0xff")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *HistoryServiceTestSuite) TestGetDeploymentByContractAddress() {
	suite.record("neon-devnet", "0x01", "0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")

	record, err := suite.history.GetDeploymentByContractAddress("0xabcdef0123456789abcdef0123456789abcdef01")
	suite.Require().NoError(err)
	suite.Equal("0x01", record.TransactionHash)

	_, err = suite.history.GetDeploymentByContractAddress("0x123")
	suite.Error(err)

	_, err = suite.history.GetDeploymentByContractAddress("0x5555555555555555555555555555555555555555")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
