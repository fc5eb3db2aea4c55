package shared

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a locally held externally-owned account. The key stays in
// memory for the lifetime of one run.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewWallet derives a wallet from a hex-encoded secp256k1 private key. A
// leading 0x prefix is accepted and stripped.
func NewWallet(privateKeyHex string) (*Wallet, error) {
	candidate := strings.TrimSpace(privateKeyHex)
	if candidate == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}
	candidate = strings.TrimPrefix(candidate, "0x")

	key, err := crypto.HexToECDSA(candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the wallet's account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignMessage signs a message with the EIP-191 personal-message prefix
// and returns the 65-byte signature as 0x-prefixed hex. The recovery id
// is offset by 27 as expected by EVM verifiers.
func (w *Wallet) SignMessage(message string) (string, error) {
	digest := accounts.TextHash([]byte(message))
	signature, err := crypto.Sign(digest, w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	signature[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(signature), nil
}

// SignTx signs a transaction for the given chain.
func (w *Wallet) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain ID must be positive")
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
