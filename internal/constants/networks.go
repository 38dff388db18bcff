package constants

// NetworkDefinition is a built-in deployment target.
type NetworkDefinition struct {
	ID           string
	Label        string
	RPC          string
	RPCEnv       string
	ChainID      int64
	TimeoutMs    int64
	NativeSymbol string
}

const (
	NetworkNeonDevnet  = "neondevnet"
	NetworkSepolia     = "sepolia"
	NetworkBaseSepolia = "base_sepolia"

	DefaultNetwork      = NetworkNeonDevnet
	DefaultContractName = "Cryptogene"
	DefaultSolcVersion  = "0.8.20"
	DefaultRelayerLabel = "enabled"

	// DefaultTimeoutMs bounds the wait for a deployment receipt on networks
	// that do not set a longer timeout of their own.
	DefaultTimeoutMs = 40000
)

// Networks lists every network the deployer accepts. Mainnets are left out on purpose.
var Networks = map[string]NetworkDefinition{
	NetworkNeonDevnet: {
		ID:           NetworkNeonDevnet,
		Label:        "neon-devnet",
		RPC:          "https://devnet.neonevm.org",
		RPCEnv:       "NEON_RPC_URL",
		ChainID:      245022926,
		TimeoutMs:    60000,
		NativeSymbol: "NEON",
	},
	NetworkSepolia: {
		ID:           NetworkSepolia,
		Label:        "sepolia",
		RPC:          "https://rpc.sepolia.org",
		RPCEnv:       "SEPOLIA_RPC_URL",
		ChainID:      11155111,
		TimeoutMs:    DefaultTimeoutMs,
		NativeSymbol: "ETH",
	},
	NetworkBaseSepolia: {
		ID:           NetworkBaseSepolia,
		Label:        "base-sepolia",
		RPC:          "https://sepolia.base.org",
		RPCEnv:       "BASE_SEPOLIA_RPC_URL",
		ChainID:      84532,
		TimeoutMs:    DefaultTimeoutMs,
		NativeSymbol: "ETH",
	},
}
