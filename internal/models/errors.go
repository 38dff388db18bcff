package models

import (
	"errors"
	"fmt"
)

// Sentinel errors - Configuration
var (
	ErrNoSignerConfigured = errors.New("no signer configured for network")
	ErrUnknownNetwork     = errors.New("unknown network")
	ErrChainIDMismatch    = errors.New("chain id mismatch")
)

// Sentinel errors - Deployment
var (
	ErrContractArtifactNotFound = errors.New("contract artifact not found")
	ErrDeploymentRejected       = errors.New("deployment rejected")
	ErrConfirmationTimeout      = errors.New("confirmation timeout")
	ErrTransport                = errors.New("transport error")
)

// RejectedError is returned when the chain refuses or reverts a deployment.
type RejectedError struct {
	TxHash string
	Reason string
}

func (e *RejectedError) Error() string {
	if e.TxHash == "" {
		return fmt.Sprintf("deployment rejected: %s", e.Reason)
	}
	return fmt.Sprintf("deployment rejected (tx %s): %s", e.TxHash, e.Reason)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrDeploymentRejected
}

// TransportError wraps an RPC or network failure from the chain client.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Stage names a step of the deployment workflow.
type Stage string

const (
	StageResolveSigner     Stage = "resolve_signer"
	StageResolveContract   Stage = "resolve_contract"
	StageSubmit            Stage = "submit"
	StageAwaitConfirmation Stage = "await_confirmation"
	StageEmit              Stage = "emit"
)

// StageError attaches the failing stage to an error without changing what
// errors.Is and errors.As see.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf reports the stage that produced err, if any.
func StageOf(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}
