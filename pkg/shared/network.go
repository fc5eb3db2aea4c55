package shared

import (
	"fmt"
	"strings"
)

const (
	EnvironmentMainnet = "mainnet"
	EnvironmentTestnet = "testnet"
)

// Environment describes a named deployment target: the Lens API endpoint,
// the backing chain, and the storage service used for post metadata.
type Environment struct {
	Name       string
	APIURL     string
	ChainID    int64
	RPCURL     string
	StorageURL string
}

var environments = map[string]Environment{
	EnvironmentMainnet: {
		Name:       EnvironmentMainnet,
		APIURL:     "https://api.lens.xyz/graphql",
		ChainID:    232,
		RPCURL:     "https://rpc.lens.xyz",
		StorageURL: "https://api.grove.storage",
	},
	EnvironmentTestnet: {
		Name:       EnvironmentTestnet,
		APIURL:     "https://api.testnet.lens.xyz/graphql",
		ChainID:    37111,
		RPCURL:     "https://rpc.testnet.lens.xyz",
		StorageURL: "https://api.grove.storage",
	},
}

// ResolveEnvironment maps an environment name to its descriptor. The empty
// string resolves to mainnet.
func ResolveEnvironment(name string) (Environment, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = EnvironmentMainnet
	}

	environment, exists := environments[normalized]
	if !exists {
		return Environment{}, fmt.Errorf("unsupported environment %q", name)
	}
	return environment, nil
}

// EnvironmentNames returns the recognized environment names.
func EnvironmentNames() []string {
	return []string{EnvironmentMainnet, EnvironmentTestnet}
}
