package config

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load(envMap(map[string]string{}))
		require.NoError(t, err)

		assert.Equal(t, "neondevnet", cfg.Network.ID)
		assert.Equal(t, "neon-devnet", cfg.Network.Label)
		assert.Equal(t, int64(245022926), cfg.Network.ChainID)
		assert.Equal(t, "https://devnet.neonevm.org", cfg.Network.RPC)
		assert.Equal(t, 60*time.Second, cfg.Network.Timeout())
		assert.Equal(t, "Cryptogene", cfg.ContractName)
		assert.Equal(t, "0.8.20", cfg.SolcVersion)
		assert.Equal(t, uint64(0), cfg.GasLimit)
		assert.False(t, cfg.Network.HasCredentials())

		flags := cfg.Flags()
		assert.True(t, flags.Gasless)
		require.NotNil(t, flags.RelayerLabel)
		assert.Equal(t, "enabled", *flags.RelayerLabel)

		assert.Equal(t, models.DeploymentRequest{ContractName: "Cryptogene", NetworkID: "neondevnet"}, cfg.Request())
	})

	t.Run("StandardTestNetworks", func(t *testing.T) {
		sepolia, err := Load(envMap(map[string]string{"DEPLOY_NETWORK": "sepolia"}))
		require.NoError(t, err)
		assert.Equal(t, int64(11155111), sepolia.Network.ChainID)
		assert.Equal(t, 40*time.Second, sepolia.Network.Timeout())

		base, err := Load(envMap(map[string]string{"DEPLOY_NETWORK": "base_sepolia"}))
		require.NoError(t, err)
		assert.Equal(t, int64(84532), base.Network.ChainID)
		assert.Equal(t, "base-sepolia", base.Network.Label)
		assert.Equal(t, 40*time.Second, base.Network.Timeout())
	})

	t.Run("Overrides", func(t *testing.T) {
		cfg, err := Load(envMap(map[string]string{
			"DEPLOY_NETWORK":          "neondevnet",
			"NEON_RPC_URL":            "http://localhost:9090/solana",
			"PRIVATE_KEY":             "0xshared",
			"NEONDEVNET_PRIVATE_KEY":  "0xneon",
			"DEPLOY_TIMEOUT_MS":       "1500",
			"DEPLOY_GAS_LIMIT":        "3000000",
			"DEPLOY_CONSTRUCTOR_ARGS": `["Gene", 7]`,
			"DEPLOY_CONTRACT":         "Evolver",
			"BICONOMY_LABEL":          "simulated",
			"DEPLOY_HISTORY_DB":       "/tmp/history.db",
		}))
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9090/solana", cfg.Network.RPC)
		assert.Equal(t, "0xneon", cfg.Network.PrivateKey)
		assert.Equal(t, 1500*time.Millisecond, cfg.Network.Timeout())
		assert.Equal(t, uint64(3000000), cfg.GasLimit)
		assert.Equal(t, []any{"Gene", json.Number("7")}, cfg.ConstructorArgs)
		assert.Equal(t, "Evolver", cfg.ContractName)
		assert.Equal(t, "simulated", *cfg.Flags().RelayerLabel)
		assert.Equal(t, "/tmp/history.db", cfg.HistoryDSN)
	})

	t.Run("LargeIntegerArgs", func(t *testing.T) {
		cfg, err := Load(envMap(map[string]string{
			"DEPLOY_CONSTRUCTOR_ARGS": `[9007199254740993, 1000000000000000000000000, [1, 2]]`,
		}))
		require.NoError(t, err)

		require.Len(t, cfg.ConstructorArgs, 3)
		assert.Equal(t, json.Number("9007199254740993"), cfg.ConstructorArgs[0])
		assert.Equal(t, json.Number("1000000000000000000000000"), cfg.ConstructorArgs[1])
		assert.Equal(t, []any{json.Number("1"), json.Number("2")}, cfg.ConstructorArgs[2])
	})

	t.Run("SharedPrivateKey", func(t *testing.T) {
		cfg, err := Load(envMap(map[string]string{"DEPLOY_NETWORK": "sepolia", "PRIVATE_KEY": "0xshared"}))
		require.NoError(t, err)
		assert.True(t, cfg.Network.HasCredentials())
		assert.Equal(t, "0xshared", cfg.Network.PrivateKey)
	})

	t.Run("UnknownNetwork", func(t *testing.T) {
		_, err := Load(envMap(map[string]string{"DEPLOY_NETWORK": "mainnet"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrUnknownNetwork))
		assert.Contains(t, err.Error(), "base_sepolia, neondevnet, sepolia")
	})

	t.Run("InvalidValues", func(t *testing.T) {
		invalid := []map[string]string{
			{"DEPLOY_GAS_LIMIT": "lots"},
			{"DEPLOY_TIMEOUT_MS": "soon"},
			{"DEPLOY_TIMEOUT_MS": "0"},
			{"DEPLOY_CONSTRUCTOR_ARGS": `{"not":"an array"}`},
			{"DEPLOY_CONSTRUCTOR_ARGS": `[1] [2]`},
			{"NEON_RPC_URL": "not a url"},
		}
		for _, env := range invalid {
			_, err := Load(envMap(env))
			assert.Error(t, err, "expected error for %v", env)
		}
	})
}
