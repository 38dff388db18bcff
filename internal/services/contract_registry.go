package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/cryptogene-deployer/internal/contracts"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/rxtech-lab/cryptogene-deployer/internal/utils"
)

// Artifact is a validated, deployable contract.
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// DeploymentData returns the creation bytecode followed by the encoded constructor arguments.
func (a *Artifact) DeploymentData(constructorArgs []any) ([]byte, error) {
	encodedArgs, err := utils.EncodeContractConstructorArgs(a.ABI, constructorArgs)
	if err != nil {
		return nil, err
	}
	return utils.BuildDeploymentData(a.Bytecode, encodedArgs), nil
}

// ContractRegistry maps contract names to deployable artifacts.
type ContractRegistry interface {
	Register(artifact *contracts.HardhatArtifact) error
	RegisterSource(version, code string, importRoots ...string) ([]string, error)
	RegisterSourceFile(version, path string) ([]string, error)
	Lookup(name string) (*Artifact, error)
	Names() []string
}

type contractRegistry struct {
	mu        sync.RWMutex
	artifacts map[string]*Artifact
	validator *validator.Validate
}

// NewContractRegistry creates a registry preloaded with the embedded artifacts.
func NewContractRegistry() (ContractRegistry, error) {
	registry := NewEmptyContractRegistry()

	embedded, err := contracts.EmbeddedArtifacts()
	if err != nil {
		return nil, err
	}
	for _, artifact := range embedded {
		if err := registry.Register(artifact); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// NewEmptyContractRegistry creates a registry with no artifacts.
func NewEmptyContractRegistry() ContractRegistry {
	return &contractRegistry{
		artifacts: make(map[string]*Artifact),
		validator: validator.New(),
	}
}

// Register validates an artifact and adds it under its contract name,
// replacing any artifact of the same name.
func (r *contractRegistry) Register(artifact *contracts.HardhatArtifact) error {
	if err := r.validator.Struct(artifact); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return fmt.Errorf("failed to parse ABI for %s: %w", artifact.ContractName, err)
	}

	bytecode, err := utils.DecodeBytecode(artifact.Bytecode)
	if err != nil {
		return fmt.Errorf("invalid bytecode for %s: %w", artifact.ContractName, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts[artifact.ContractName] = &Artifact{
		Name:     artifact.ContractName,
		ABI:      parsedABI,
		Bytecode: bytecode,
	}
	return nil
}

// RegisterSource compiles Solidity source and registers every contract in it.
// Abstract contracts and interfaces have no bytecode and are skipped.
func (r *contractRegistry) RegisterSource(version, code string, importRoots ...string) ([]string, error) {
	result, err := utils.CompileSolidity(version, code, importRoots...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile contract source: %w", err)
	}

	var registered []string
	for name, bytecode := range result.Bytecode {
		if bytecode == "" {
			continue
		}
		abiJSON, err := json.Marshal(result.Abi[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ABI: %w", err)
		}
		err = r.Register(&contracts.HardhatArtifact{
			ContractName: name,
			ABI:          abiJSON,
			Bytecode:     bytecode,
		})
		if err != nil {
			return nil, err
		}
		registered = append(registered, name)
	}
	sort.Strings(registered)
	return registered, nil
}

// RegisterSourceFile compiles a .sol file, resolving imports next to it.
func (r *contractRegistry) RegisterSourceFile(version, path string) ([]string, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract source: %w", err)
	}
	return r.RegisterSource(version, string(code), filepath.Dir(path))
}

// Lookup returns the artifact registered under name.
func (r *contractRegistry) Lookup(name string) (*Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifact, ok := r.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrContractArtifactNotFound, name)
	}
	return artifact, nil
}

func (r *contractRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.artifacts))
	for name := range r.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
