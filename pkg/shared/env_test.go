package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalletConfigFromEnv(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "abc123")
	config, err := WalletConfigFromEnv("mainnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.PrivateKey != "0xabc123" {
		t.Fatalf("expected normalized key 0xabc123, got %q", config.PrivateKey)
	}
	if config.Environment != EnvironmentMainnet {
		t.Fatalf("unexpected environment: %q", config.Environment)
	}
}

func TestWalletConfigFromEnvMissing(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "")
	t.Setenv("WALLET_PRIVATE_KEY", "")
	t.Setenv("MAINNET_PRIVATE_KEY", "")
	if _, err := WalletConfigFromEnv("mainnet"); err == nil {
		t.Fatal("expected error when PRIVATE_KEY is absent")
	}
}

func TestWalletConfigFromEnvScopedOverride(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "0xdefault")
	t.Setenv("TESTNET_PRIVATE_KEY", "0xscoped")

	config, err := WalletConfigFromEnv("testnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.PrivateKey != "0xscoped" {
		t.Fatalf("expected scoped key, got %q", config.PrivateKey)
	}

	config, err = WalletConfigFromEnv("mainnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.PrivateKey != "0xdefault" {
		t.Fatalf("expected default key for mainnet, got %q", config.PrivateKey)
	}
}

func TestNormalizePrivateKey(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"abc", "0xabc"},
		{"0xabc", "0xabc"},
		{"0Xabc", "0xabc"},
		{"  abc  ", "0xabc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePrivateKey(tc.input); got != tc.expected {
			t.Fatalf("expected %q for input %q, got %q", tc.expected, tc.input, got)
		}
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "# comment\nexport LENSPOST_TEST_A=alpha\nLENSPOST_TEST_B=\"quoted\"\nnot a pair\nLENSPOST_TEST_C='single'\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	t.Setenv("LENSPOST_TEST_A", "")
	os.Unsetenv("LENSPOST_TEST_A")
	t.Setenv("LENSPOST_TEST_B", "")
	os.Unsetenv("LENSPOST_TEST_B")
	t.Setenv("LENSPOST_TEST_C", "preset")

	if !loadDotEnvFile(path) {
		t.Fatal("expected at least one variable to load")
	}
	if got := os.Getenv("LENSPOST_TEST_A"); got != "alpha" {
		t.Fatalf("expected alpha, got %q", got)
	}
	if got := os.Getenv("LENSPOST_TEST_B"); got != "quoted" {
		t.Fatalf("expected quoted, got %q", got)
	}
	if got := os.Getenv("LENSPOST_TEST_C"); got != "preset" {
		t.Fatalf("expected preset value to win, got %q", got)
	}
}

func TestIsValidEnvKey(t *testing.T) {
	valid := []string{"A", "PRIVATE_KEY", "a_b_c", "KEY2"}
	for _, key := range valid {
		if !isValidEnvKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}
	invalid := []string{"", "2KEY", "KEY-NAME", "KEY NAME"}
	for _, key := range invalid {
		if isValidEnvKey(key) {
			t.Fatalf("expected %q to be invalid", key)
		}
	}
}
