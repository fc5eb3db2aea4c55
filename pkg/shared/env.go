package shared

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// WalletConfig carries the wallet credentials resolved from the process
// environment for one run.
type WalletConfig struct {
	PrivateKey  string
	Environment string
}

var dotenvLoadOnce sync.Once

// WalletConfigFromEnv resolves PRIVATE_KEY from the environment, loading a
// .env file first if one is present. Environment-scoped overrides such as
// MAINNET_PRIVATE_KEY and TESTNET_PRIVATE_KEY take precedence for their
// environment. The returned key is normalized to carry a 0x prefix.
func WalletConfigFromEnv(environment string) (WalletConfig, error) {
	loadDotEnvIfPresent()

	normalizedEnvironment := strings.ToLower(strings.TrimSpace(environment))
	if normalizedEnvironment == "" {
		normalizedEnvironment = EnvironmentMainnet
	}

	privateKey := firstNonEmptyEnv("PRIVATE_KEY", "WALLET_PRIVATE_KEY")

	switch normalizedEnvironment {
	case EnvironmentMainnet:
		if scoped := firstNonEmptyEnv("MAINNET_PRIVATE_KEY"); scoped != "" {
			privateKey = scoped
		}
	case EnvironmentTestnet:
		if scoped := firstNonEmptyEnv("TESTNET_PRIVATE_KEY"); scoped != "" {
			privateKey = scoped
		}
	}

	if privateKey == "" {
		return WalletConfig{}, fmt.Errorf("PRIVATE_KEY is required")
	}

	return WalletConfig{
		PrivateKey:  NormalizePrivateKey(privateKey),
		Environment: normalizedEnvironment,
	}, nil
}

// NormalizePrivateKey prepends the 0x prefix if absent.
func NormalizePrivateKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		return "0x" + trimmed[2:]
	}
	return "0x" + trimmed
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			return
		}

		current := cwd
		for {
			candidate := filepath.Join(current, ".env")
			if _, statErr := os.Stat(candidate); statErr == nil {
				loadDotEnvFile(candidate)
				return
			}

			parent := filepath.Dir(current)
			if parent == current {
				return
			}
			current = parent
		}
	})
}

func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		separator := strings.Index(line, "=")
		if separator <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:separator])
		if !isValidEnvKey(key) {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}

		value := strings.TrimSpace(line[separator+1:])
		if len(value) >= 2 {
			first := value[0]
			last := value[len(value)-1]
			if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		if (character >= 'A' && character <= 'Z') ||
			(character >= 'a' && character <= 'z') ||
			(index > 0 && character >= '0' && character <= '9') ||
			character == '_' {
			continue
		}
		return false
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}
