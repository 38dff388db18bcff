package services

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rxtech-lab/cryptogene-deployer/internal/config"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/rxtech-lab/cryptogene-deployer/internal/utils"
)

const defaultPollInterval = time.Second

// ChainClient is the deployer's view of a blockchain network.
type ChainClient interface {
	// DefaultAccount returns the address of the configured signing key.
	DefaultAccount(ctx context.Context) (string, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
	// SubmitDeployment signs and broadcasts a contract creation transaction.
	SubmitDeployment(ctx context.Context, from string, data []byte) (*models.PendingDeployment, error)
	// WaitConfirmation blocks until the transaction is mined or ctx is done.
	WaitConfirmation(ctx context.Context, pending *models.PendingDeployment) (*models.Confirmation, error)
	Close()
}

// EthBackend is the subset of ethclient.Client used by the chain client.
// ethclient/simulated clients satisfy it as well.
type EthBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type ChainClientOption func(*ethChainClient)

// WithGasLimit fixes the gas limit instead of estimating it.
func WithGasLimit(gasLimit uint64) ChainClientOption {
	return func(c *ethChainClient) {
		c.gasLimit = gasLimit
	}
}

// WithPollInterval sets how often the receipt is polled while waiting.
func WithPollInterval(interval time.Duration) ChainClientOption {
	return func(c *ethChainClient) {
		c.pollInterval = interval
	}
}

type ethChainClient struct {
	backend      EthBackend
	closer       func()
	network      config.Network
	privateKey   *ecdsa.PrivateKey
	keyErr       error
	gasLimit     uint64
	pollInterval time.Duration
}

// NewEthChainClient connects to the network's RPC endpoint. Dialing an HTTP
// endpoint does not perform a request.
func NewEthChainClient(ctx context.Context, network config.Network, opts ...ChainClientOption) (ChainClient, error) {
	client, err := ethclient.DialContext(ctx, network.RPC)
	if err != nil {
		return nil, &models.TransportError{Op: "dial " + network.RPC, Err: err}
	}
	c := NewEthChainClientWithBackend(client, network, opts...)
	c.(*ethChainClient).closer = client.Close
	return c, nil
}

// NewEthChainClientWithBackend wraps an existing backend.
func NewEthChainClientWithBackend(backend EthBackend, network config.Network, opts ...ChainClientOption) ChainClient {
	c := &ethChainClient{
		backend:      backend,
		network:      network,
		pollInterval: defaultPollInterval,
	}
	c.privateKey, c.keyErr = parsePrivateKey(network.PrivateKey)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func parsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	key := utils.NormalizePrivateKey(raw)
	if key == "" {
		return nil, models.ErrNoSignerConfigured
	}
	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		// The parse error can echo key material, keep it out of the message.
		return nil, fmt.Errorf("%w: private key is not a valid secp256k1 hex key", models.ErrNoSignerConfigured)
	}
	return privateKey, nil
}

func (c *ethChainClient) DefaultAccount(ctx context.Context) (string, error) {
	if c.keyErr != nil {
		return "", fmt.Errorf("%w (network %s)", c.keyErr, c.network.ID)
	}
	return crypto.PubkeyToAddress(c.privateKey.PublicKey).Hex(), nil
}

func (c *ethChainClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	if !utils.IsValidEthereumAddress(address) {
		return nil, fmt.Errorf("invalid address: %s", address)
	}
	balance, err := c.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, &models.TransportError{Op: "eth_getBalance", Err: err}
	}
	return balance, nil
}

func (c *ethChainClient) SubmitDeployment(ctx context.Context, from string, data []byte) (*models.PendingDeployment, error) {
	account, err := c.DefaultAccount(ctx)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(account, from) {
		return nil, fmt.Errorf("%w: configured key belongs to %s, not %s", models.ErrNoSignerConfigured, account, from)
	}
	fromAddress := common.HexToAddress(account)

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, &models.TransportError{Op: "eth_chainId", Err: err}
	}
	if chainID.Cmp(big.NewInt(c.network.ChainID)) != 0 {
		return nil, fmt.Errorf("%w: %s reports chain id %s, expected %d", models.ErrChainIDMismatch, c.network.Label, chainID, c.network.ChainID)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		return nil, &models.TransportError{Op: "eth_getTransactionCount", Err: err}
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, &models.TransportError{Op: "eth_gasPrice", Err: err}
	}

	gasLimit := c.gasLimit
	if gasLimit == 0 {
		gasLimit, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     fromAddress,
			GasPrice: gasPrice,
			Data:     data,
		})
		if err != nil {
			return nil, classifyChainError("eth_estimateGas", "", err)
		}
	}

	tx := types.NewContractCreation(nonce, big.NewInt(0), gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, classifyChainError("eth_sendRawTransaction", signedTx.Hash().Hex(), err)
	}

	log.Printf("Deployment transaction sent: %s (nonce %d, gas limit %d)", signedTx.Hash().Hex(), nonce, gasLimit)

	return &models.PendingDeployment{
		TxHash:      signedTx.Hash().Hex(),
		From:        account,
		Nonce:       nonce,
		GasLimit:    gasLimit,
		SubmittedAt: time.Now(),
	}, nil
}

func (c *ethChainClient) WaitConfirmation(ctx context.Context, pending *models.PendingDeployment) (*models.Confirmation, error) {
	txHash := common.HexToHash(pending.TxHash)

	queryTicker := time.NewTicker(c.pollInterval)
	defer queryTicker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return confirmationFromReceipt(pending.TxHash, receipt)
		}
		if !errors.Is(err, ethereum.NotFound) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &models.TransportError{Op: "eth_getTransactionReceipt", Err: err}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}

func (c *ethChainClient) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func confirmationFromReceipt(txHash string, receipt *types.Receipt) (*models.Confirmation, error) {
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &models.RejectedError{TxHash: txHash, Reason: "execution reverted (receipt status 0)"}
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, &models.RejectedError{TxHash: txHash, Reason: "receipt has no contract address"}
	}

	confirmation := &models.Confirmation{
		TxHash:          txHash,
		ContractAddress: receipt.ContractAddress.Hex(),
	}
	if receipt.BlockNumber != nil {
		blockNumber := receipt.BlockNumber.Uint64()
		confirmation.BlockNumber = &blockNumber
	}
	return confirmation, nil
}

// rejectionMessages are node responses that mean the transaction itself was
// refused, as opposed to the node being unreachable.
var rejectionMessages = []string{
	"execution reverted",
	"insufficient funds",
	"nonce too low",
	"nonce too high",
	"replacement transaction underpriced",
	"already known",
	"intrinsic gas too low",
	"gas required exceeds allowance",
	"exceeds block gas limit",
	"max initcode size exceeded",
	"transaction underpriced",
	"fee cap less than block base fee",
}

// revertErrorCode is the JSON-RPC error code nodes return for reverted execution.
const revertErrorCode = 3

// classifyChainError separates refusals of the transaction itself from node
// and network failures. Other JSON-RPC errors such as rate limiting are
// transport errors.
func classifyChainError(op, txHash string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return &models.RejectedError{TxHash: txHash, Reason: err.Error()}
	}
	message := strings.ToLower(err.Error())
	for _, rejection := range rejectionMessages {
		if strings.Contains(message, rejection) {
			return &models.RejectedError{TxHash: txHash, Reason: err.Error()}
		}
	}
	return &models.TransportError{Op: op, Err: err}
}
