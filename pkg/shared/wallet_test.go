package shared

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const testKeyHex = "0x0000000000000000000000000000000000000000000000000000000000000001"

func TestNewWalletDerivesAddress(t *testing.T) {
	wallet, err := NewWallet(testKeyHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
	if wallet.Address() != expected {
		t.Fatalf("expected address %s, got %s", expected.Hex(), wallet.Address().Hex())
	}
}

func TestNewWalletWithoutPrefix(t *testing.T) {
	wallet, err := NewWallet(strings.TrimPrefix(testKeyHex, "0x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
	if wallet.Address() != expected {
		t.Fatalf("expected address %s, got %s", expected.Hex(), wallet.Address().Hex())
	}
}

func TestNewWalletEmpty(t *testing.T) {
	if _, err := NewWallet("   "); err == nil {
		t.Fatal("expected error for empty private key")
	}
}

func TestNewWalletInvalid(t *testing.T) {
	if _, err := NewWallet("0xnothex"); err == nil {
		t.Fatal("expected error for invalid private key")
	}
}

func TestSignMessageRecoversWalletAddress(t *testing.T) {
	wallet, err := NewWallet(testKeyHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	message := "lenspost login challenge"
	signatureHex, err := wallet.SignMessage(message)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(signatureHex, "0x") {
		t.Fatalf("expected 0x prefix, got %q", signatureHex)
	}

	signature, err := hexutil.Decode(signatureHex)
	if err != nil {
		t.Fatalf("signature is not valid hex: %v", err)
	}
	if len(signature) != 65 {
		t.Fatalf("expected 65-byte signature, got %d bytes", len(signature))
	}
	if signature[64] != 27 && signature[64] != 28 {
		t.Fatalf("expected recovery id 27 or 28, got %d", signature[64])
	}

	signature[64] -= 27
	recovered, err := crypto.SigToPub(accounts.TextHash([]byte(message)), signature)
	if err != nil {
		t.Fatalf("failed to recover signer: %v", err)
	}
	if crypto.PubkeyToAddress(*recovered) != wallet.Address() {
		t.Fatal("recovered signer does not match wallet address")
	}
}

func TestSignTx(t *testing.T) {
	wallet, err := NewWallet(testKeyHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    1,
		GasPrice: big.NewInt(1_000_000_000),
		Gas:      21_000,
		To:       &to,
		Value:    big.NewInt(0),
	})

	chainID := big.NewInt(232)
	signed, err := wallet.SignTx(tx, chainID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatalf("failed to recover sender: %v", err)
	}
	if sender != wallet.Address() {
		t.Fatalf("expected sender %s, got %s", wallet.Address().Hex(), sender.Hex())
	}
}

func TestSignTxInvalidChainID(t *testing.T) {
	wallet, err := NewWallet(testKeyHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := wallet.SignTx(types.NewTx(&types.LegacyTx{}), nil); err == nil {
		t.Fatal("expected error for nil chain ID")
	}
}
