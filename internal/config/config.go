package config

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/cryptogene-deployer/internal/constants"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
)

// Network is the resolved configuration for the selected network.
type Network struct {
	ID           string `validate:"required"`
	Label        string `validate:"required"`
	RPC          string `validate:"required,url"`
	ChainID      int64  `validate:"gt=0"`
	TimeoutMs    int64  `validate:"gt=0"`
	NativeSymbol string `validate:"required"`
	// PrivateKey is optional here. A missing key is reported when the signer
	// is resolved, not at load time.
	PrivateKey string `json:"-"`
}

// Timeout returns the confirmation timeout.
func (n Network) Timeout() time.Duration {
	return time.Duration(n.TimeoutMs) * time.Millisecond
}

// HasCredentials reports whether a signing key was provided.
func (n Network) HasCredentials() bool {
	return strings.TrimSpace(n.PrivateKey) != ""
}

// Config is built once at startup and passed to the components that need it.
type Config struct {
	Network         Network
	ContractName    string `validate:"required"`
	GasLimit        uint64 // 0 means estimate
	ConstructorArgs []any
	ContractSource  string
	SolcVersion     string `validate:"required"`
	HistoryDSN      string
	Gasless         bool
	RelayerLabel    string
}

// Request returns the deployment request described by the config.
func (c *Config) Request() models.DeploymentRequest {
	return models.DeploymentRequest{
		ContractName: c.ContractName,
		NetworkID:    c.Network.ID,
	}
}

// Flags returns the static capability labels reported in the output.
func (c *Config) Flags() models.DeploymentFlags {
	flags := models.DeploymentFlags{Gasless: c.Gasless}
	if c.RelayerLabel != "" {
		label := c.RelayerLabel
		flags.RelayerLabel = &label
	}
	return flags
}

// Load reads the configuration from the environment through getenv.
func Load(getenv func(string) string) (*Config, error) {
	networkID := envOr(getenv, "DEPLOY_NETWORK", constants.DefaultNetwork)
	network, err := resolveNetwork(getenv, networkID)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Network:        network,
		ContractName:   envOr(getenv, "DEPLOY_CONTRACT", constants.DefaultContractName),
		ContractSource: getenv("DEPLOY_CONTRACT_SOURCE"),
		SolcVersion:    envOr(getenv, "SOLC_VERSION", constants.DefaultSolcVersion),
		HistoryDSN:     getenv("DEPLOY_HISTORY_DB"),
		Gasless:        true,
		RelayerLabel:   envOr(getenv, "BICONOMY_LABEL", constants.DefaultRelayerLabel),
	}

	if raw := getenv("DEPLOY_GAS_LIMIT"); raw != "" {
		gasLimit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEPLOY_GAS_LIMIT %q: %w", raw, err)
		}
		cfg.GasLimit = gasLimit
	}

	if raw := getenv("DEPLOY_CONSTRUCTOR_ARGS"); raw != "" {
		args, err := parseConstructorArgs(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DEPLOY_CONSTRUCTOR_ARGS, expected a JSON array: %w", err)
		}
		cfg.ConstructorArgs = args
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NetworkIDs returns the identifiers of all known networks, sorted.
func NetworkIDs() []string {
	ids := make([]string, 0, len(constants.Networks))
	for id := range constants.Networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func resolveNetwork(getenv func(string) string, networkID string) (Network, error) {
	def, ok := constants.Networks[networkID]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q (known: %s)", models.ErrUnknownNetwork, networkID, strings.Join(NetworkIDs(), ", "))
	}

	network := Network{
		ID:           def.ID,
		Label:        def.Label,
		RPC:          envOr(getenv, def.RPCEnv, def.RPC),
		ChainID:      def.ChainID,
		TimeoutMs:    def.TimeoutMs,
		NativeSymbol: def.NativeSymbol,
		PrivateKey:   envOr(getenv, strings.ToUpper(def.ID)+"_PRIVATE_KEY", getenv("PRIVATE_KEY")),
	}

	if raw := getenv("DEPLOY_TIMEOUT_MS"); raw != "" {
		timeoutMs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Network{}, fmt.Errorf("invalid DEPLOY_TIMEOUT_MS %q: %w", raw, err)
		}
		network.TimeoutMs = timeoutMs
	}

	return network, nil
}

// parseConstructorArgs decodes a JSON array, keeping numbers as json.Number
// so large integers are not rounded through float64.
func parseConstructorArgs(raw string) ([]any, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var args []any
	if err := decoder.Decode(&args); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the array")
	}
	return args, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return fallback
}
