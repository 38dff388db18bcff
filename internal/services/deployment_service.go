package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"

	"github.com/rxtech-lab/cryptogene-deployer/internal/config"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/rxtech-lab/cryptogene-deployer/internal/utils"
)

// DeploymentService drives a single contract deployment from signer
// resolution to the printed result.
type DeploymentService interface {
	ResolveSigner(ctx context.Context) (*models.Signer, error)
	InspectBalance(ctx context.Context, signer *models.Signer) *big.Int
	Deploy(ctx context.Context, contractName string, constructorArgs ...any) (*models.PendingDeployment, error)
	AwaitConfirmation(ctx context.Context, pending *models.PendingDeployment) (*models.DeploymentResult, error)
	EmitResult(w io.Writer, result *models.DeploymentResult) error
	Run(ctx context.Context, w io.Writer) (*models.DeploymentResult, error)
}

type DeploymentServiceOption func(*deploymentService)

// WithHooks runs hooks after every confirmed deployment.
func WithHooks(hooks HookService) DeploymentServiceOption {
	return func(s *deploymentService) {
		s.hooks = hooks
	}
}

// WithPrettyOutput indents the emitted JSON.
func WithPrettyOutput(pretty bool) DeploymentServiceOption {
	return func(s *deploymentService) {
		s.pretty = pretty
	}
}

type deploymentService struct {
	cfg      *config.Config
	chain    ChainClient
	registry ContractRegistry
	hooks    HookService
	pretty   bool

	signer *models.Signer
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(cfg *config.Config, chain ChainClient, registry ContractRegistry, opts ...DeploymentServiceOption) DeploymentService {
	s := &deploymentService{
		cfg:      cfg,
		chain:    chain,
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveSigner returns the default account of the selected network.
func (s *deploymentService) ResolveSigner(ctx context.Context) (*models.Signer, error) {
	address, err := s.chain.DefaultAccount(ctx)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageResolveSigner, Err: err}
	}
	if address == "" {
		return nil, &models.StageError{Stage: models.StageResolveSigner, Err: models.ErrNoSignerConfigured}
	}
	s.signer = &models.Signer{Address: address}
	return s.signer, nil
}

// InspectBalance reads the signer's balance for diagnostics. It never fails
// the deployment; an unreadable balance is reported as unknown (nil).
func (s *deploymentService) InspectBalance(ctx context.Context, signer *models.Signer) *big.Int {
	balance, err := s.chain.Balance(ctx, signer.Address)
	if err != nil {
		log.Printf("Failed to read balance for %s: %v", signer.Address, err)
		signer.Balance = nil
		return nil
	}
	signer.Balance = balance
	return balance
}

// Deploy looks up the contract and submits its deployment transaction.
// The signer is resolved first if that has not happened yet, so nothing is
// submitted without one.
func (s *deploymentService) Deploy(ctx context.Context, contractName string, constructorArgs ...any) (*models.PendingDeployment, error) {
	if s.signer == nil {
		if _, err := s.ResolveSigner(ctx); err != nil {
			return nil, err
		}
	}

	artifact, err := s.registry.Lookup(contractName)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageResolveContract, Err: err}
	}

	data, err := artifact.DeploymentData(constructorArgs)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageResolveContract, Err: fmt.Errorf("failed to build deployment data for %s: %w", contractName, err)}
	}

	pending, err := s.chain.SubmitDeployment(ctx, s.signer.Address, data)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageSubmit, Err: err}
	}
	pending.ContractName = contractName
	return pending, nil
}

// AwaitConfirmation waits, bounded by the network timeout, for the deployment
// to be mined. On timeout the transaction may still be mined later.
func (s *deploymentService) AwaitConfirmation(ctx context.Context, pending *models.PendingDeployment) (*models.DeploymentResult, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.Network.Timeout())
	defer cancel()

	confirmation, err := s.chain.WaitConfirmation(waitCtx, pending)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && waitCtx.Err() != nil {
			err = fmt.Errorf("%w: transaction %s not mined within %s", models.ErrConfirmationTimeout, pending.TxHash, s.cfg.Network.Timeout())
		}
		return nil, &models.StageError{Stage: models.StageAwaitConfirmation, Err: err}
	}

	return models.NewDeploymentResult(pending, confirmation, s.cfg.Network.Label, s.cfg.Flags()), nil
}

// EmitResult writes the result as one JSON document. The document is fully
// encoded before anything is written.
func (s *deploymentService) EmitResult(w io.Writer, result *models.DeploymentResult) error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(result.Output(), "", "  ")
	} else {
		data, err = json.Marshal(result.Output())
	}
	if err != nil {
		return &models.StageError{Stage: models.StageEmit, Err: fmt.Errorf("failed to encode result: %w", err)}
	}

	var buf bytes.Buffer
	buf.Write(data)
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &models.StageError{Stage: models.StageEmit, Err: fmt.Errorf("failed to write result: %w", err)}
	}
	return nil
}

// Run executes the whole workflow. Any error aborts it and nothing is
// written to w.
func (s *deploymentService) Run(ctx context.Context, w io.Writer) (*models.DeploymentResult, error) {
	request := s.cfg.Request()
	log.Printf("Deploying %s to %s...", request.ContractName, s.cfg.Network.Label)

	signer, err := s.ResolveSigner(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("Deployer address: %s", signer.Address)

	balance := s.InspectBalance(ctx, signer)
	log.Printf("Balance: %s", utils.FormatBalance(balance, s.cfg.Network.NativeSymbol))

	pending, err := s.Deploy(ctx, request.ContractName, s.cfg.ConstructorArgs...)
	if err != nil {
		return nil, err
	}

	log.Printf("Waiting for deployment of %s (tx %s)...", request.ContractName, pending.TxHash)
	result, err := s.AwaitConfirmation(ctx, pending)
	if err != nil {
		return nil, err
	}
	log.Printf("%s deployed at %s", result.ContractName, result.DeployedAddress)

	if s.hooks != nil {
		if err := s.hooks.OnDeploymentConfirmed(pending, result); err != nil {
			log.Printf("Deployment hook failed: %v", err)
		}
	}

	if err := s.EmitResult(w, result); err != nil {
		return nil, err
	}
	return result, nil
}
