package lens

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/openclaw/lenspost-go/pkg/shared"
)

// SendRawTransaction fills in the nonce and gas parameters of a raw
// transaction request, signs it with the wallet, and submits it to the
// chain RPC. It returns the transaction hash.
func SendRawTransaction(
	ctx context.Context,
	rpcURL string,
	wallet *shared.Wallet,
	raw RawTransaction,
) (string, error) {
	if wallet == nil {
		return "", fmt.Errorf("wallet is required")
	}
	if !common.IsHexAddress(strings.TrimSpace(raw.To)) {
		return "", fmt.Errorf("raw transaction has invalid recipient %q", raw.To)
	}

	client, err := ethclient.DialContext(ctx, strings.TrimSpace(rpcURL))
	if err != nil {
		return "", fmt.Errorf("failed to connect to chain RPC: %w", err)
	}
	defer client.Close()

	to := common.HexToAddress(strings.TrimSpace(raw.To))
	data := common.FromHex(strings.TrimSpace(raw.Data))

	value, err := parseQuantity(raw.Value)
	if err != nil {
		return "", fmt.Errorf("raw transaction has invalid value: %w", err)
	}

	nonce, err := client.PendingNonceAt(ctx, wallet.Address())
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	gasLimit, err := parseQuantity(raw.GasLimit)
	if err != nil {
		return "", fmt.Errorf("raw transaction has invalid gas limit: %w", err)
	}
	gas := gasLimit.Uint64()
	if gas == 0 {
		gas, err = client.EstimateGas(ctx, ethereum.CallMsg{
			From:  wallet.Address(),
			To:    &to,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return "", fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	chainID := big.NewInt(raw.ChainID)
	if raw.ChainID <= 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to fetch chain ID: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := wallet.SignTx(tx, chainID)
	if err != nil {
		return "", err
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to submit transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// parseQuantity reads a decimal or 0x-prefixed hex quantity. Empty input
// is zero.
func parseQuantity(input string) (*big.Int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 0)
	if !ok {
		return nil, fmt.Errorf("invalid quantity %q", input)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("quantity %q cannot be negative", input)
	}
	return value, nil
}
