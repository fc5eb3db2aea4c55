package publish

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openclaw/lenspost-go/pkg/lens"
	"github.com/openclaw/lenspost-go/pkg/metadata"
	"github.com/openclaw/lenspost-go/pkg/shared"
	"github.com/openclaw/lenspost-go/pkg/storage"
)

// ProtocolClient is the slice of the Lens client a run needs.
type ProtocolClient interface {
	AccountsAvailable(ctx context.Context, managedBy string) ([]lens.Account, error)
	Login(ctx context.Context, request lens.LoginRequest, sign lens.Signer) (lens.Session, error)
	CreatePost(ctx context.Context, request lens.PostRequest) (lens.PostOperation, error)
	WaitForTransaction(ctx context.Context, txHash string, options lens.WaitOptions) error
}

// StorageClient is the slice of the storage client a run needs.
type StorageClient interface {
	UploadImmutable(ctx context.Context, chainID int64, payload any) (storage.UploadResult, error)
	Download(ctx context.Context, contentURI string) ([]byte, error)
}

// BroadcastFunc signs and submits a raw transaction request, returning
// the transaction hash.
type BroadcastFunc func(ctx context.Context, raw lens.RawTransaction) (string, error)

// Deps are the collaborators of one run. In dry-run mode only the wallet
// is touched.
type Deps struct {
	Wallet    *shared.Wallet
	Protocol  ProtocolClient
	Storage   StorageClient
	Broadcast BroadcastFunc
	Wait      lens.WaitOptions
	Logger    zerolog.Logger
	Stdout    io.Writer
	Stderr    io.Writer
}

// PostResult is the observable outcome of a publish run.
type PostResult struct {
	ContentURI    string `json:"contentUri"`
	TxHash        string `json:"txHash"`
	Indexed       bool   `json:"indexed"`
	IndexingError string `json:"indexingError,omitempty"`
}

// Outcome carries the process exit code alongside the result.
type Outcome struct {
	ExitCode int
	Result   PostResult
}

// Preview is the dry-run summary printed instead of executing.
type Preview struct {
	DryRun             bool                   `json:"dryRun"`
	Environment        string                 `json:"environment"`
	WalletAddress      string                 `json:"walletAddress"`
	LensAccountAddress string                 `json:"lensAccountAddress"`
	App                string                 `json:"app,omitempty"`
	Note               string                 `json:"note"`
	WillUploadMetadata bool                   `json:"willUploadMetadata"`
	WillPublish        bool                   `json:"willPublish"`
	Metadata           *metadata.PostMetadata `json:"metadata,omitempty"`
	ContentURI         string                 `json:"contentUri,omitempty"`
}

// Run executes one run to completion or first fatal error. Indexing
// failure after a successful broadcast is soft: the outcome carries exit
// code 2 and the error return stays nil.
func Run(ctx context.Context, config RunConfig, deps Deps) (Outcome, error) {
	if err := config.Validate(); err != nil {
		return Outcome{ExitCode: 1}, err
	}
	if deps.Wallet == nil {
		return Outcome{ExitCode: 1}, Errorf(KindConfiguration, "a wallet is required")
	}

	if config.Mode != ModePublish {
		return dryRun(config, deps)
	}
	return executePublish(ctx, config, deps)
}

func dryRun(config RunConfig, deps Deps) (Outcome, error) {
	preview := Preview{
		DryRun:             true,
		Environment:        config.Environment.Name,
		WalletAddress:      deps.Wallet.Address().Hex(),
		LensAccountAddress: strings.TrimSpace(config.Account),
		App:                strings.TrimSpace(config.App),
		Note:               "dry run only; pass --publish to post",
		WillUploadMetadata: config.WillUploadMetadata(),
		WillPublish:        false,
		ContentURI:         config.ResolvedContentURI(),
	}
	if preview.LensAccountAddress == "" {
		preview.LensAccountAddress = "(discovered at publish time)"
	}

	// The preview always shows the metadata the content would produce,
	// even when a supplied content URI means it would not be uploaded.
	if strings.TrimSpace(config.Content) != "" {
		built, err := metadata.NewTextOnly(config.Content, metadata.TextOnlyOptions{})
		if err != nil {
			return Outcome{ExitCode: 1}, E(KindConfiguration, err)
		}
		preview.Metadata = &built
	}

	if err := printJSON(deps.Stdout, preview, true); err != nil {
		return Outcome{ExitCode: 1}, err
	}
	return Outcome{ExitCode: 0}, nil
}

func executePublish(ctx context.Context, config RunConfig, deps Deps) (Outcome, error) {
	if deps.Protocol == nil {
		return Outcome{ExitCode: 1}, Errorf(KindConfiguration, "a protocol client is required")
	}

	accountAddress, err := resolveAccount(ctx, config, deps)
	if err != nil {
		return Outcome{ExitCode: 1}, err
	}
	deps.Logger.Debug().Str("account", accountAddress).Msg("account resolved")

	_, err = deps.Protocol.Login(ctx, lens.LoginRequest{
		Account: accountAddress,
		Owner:   deps.Wallet.Address().Hex(),
		App:     strings.TrimSpace(config.App),
	}, deps.Wallet.SignMessage)
	if err != nil {
		return Outcome{ExitCode: 1}, E(KindAuth, err)
	}
	deps.Logger.Debug().Msg("logged in as account owner")

	contentURI, err := resolveContentURI(ctx, config, deps)
	if err != nil {
		return Outcome{ExitCode: 1}, err
	}
	deps.Logger.Debug().Str("contentUri", contentURI).Msg("content URI resolved")

	operation, err := deps.Protocol.CreatePost(ctx, lens.PostRequest{
		ContentURI: contentURI,
		Feed:       strings.TrimSpace(config.Feed),
	})
	if err != nil {
		return Outcome{ExitCode: 1}, E(KindPublish, err)
	}

	txHash := strings.TrimSpace(operation.Hash)
	if txHash == "" {
		if operation.Raw == nil {
			return Outcome{ExitCode: 1}, Errorf(
				KindPublish,
				"post operation included neither a hash nor a transaction request",
			)
		}
		if deps.Broadcast == nil {
			return Outcome{ExitCode: 1}, Errorf(
				KindPublish,
				"post requires local broadcast but no broadcaster is configured",
			)
		}
		txHash, err = deps.Broadcast(ctx, *operation.Raw)
		if err != nil {
			return Outcome{ExitCode: 1}, E(KindPublish, err)
		}
	}

	result := PostResult{ContentURI: contentURI, TxHash: txHash}
	if err := printJSON(deps.Stdout, map[string]any{
		"ok":         true,
		"txHash":     txHash,
		"contentUri": contentURI,
	}, false); err != nil {
		return Outcome{ExitCode: 1, Result: result}, err
	}

	// Indexing failure must never discard the broadcast hash.
	if err := deps.Protocol.WaitForTransaction(ctx, txHash, deps.Wait); err != nil {
		result.IndexingError = err.Error()
		printErr := printJSON(deps.Stderr, map[string]any{
			"ok":            false,
			"txHash":        txHash,
			"indexingError": result.IndexingError,
		}, false)
		if printErr != nil {
			return Outcome{ExitCode: 2, Result: result}, printErr
		}
		return Outcome{ExitCode: 2, Result: result}, nil
	}

	result.Indexed = true
	if err := printJSON(deps.Stdout, map[string]any{
		"indexed": true,
		"txHash":  txHash,
	}, false); err != nil {
		return Outcome{ExitCode: 1, Result: result}, err
	}
	return Outcome{ExitCode: 0, Result: result}, nil
}

// resolveAccount applies the documented selection policy: an explicit
// override wins, otherwise the first discovered account is used.
func resolveAccount(ctx context.Context, config RunConfig, deps Deps) (string, error) {
	if override := strings.TrimSpace(config.Account); override != "" {
		return override, nil
	}

	wallet := deps.Wallet.Address().Hex()
	accounts, err := deps.Protocol.AccountsAvailable(ctx, wallet)
	if err != nil {
		return "", E(KindRemoteQuery, err)
	}
	if len(accounts) == 0 {
		return "", Errorf(KindRemoteQuery, "no accounts available for wallet %s", wallet)
	}

	selected := accounts[0]
	if strings.TrimSpace(selected.Address) == "" {
		return "", Errorf(KindRemoteQuery, "selected account record is missing an address")
	}
	return selected.Address, nil
}

func resolveContentURI(ctx context.Context, config RunConfig, deps Deps) (string, error) {
	if supplied := config.ResolvedContentURI(); supplied != "" {
		if config.VerifyURI {
			if deps.Storage == nil {
				return "", Errorf(KindConfiguration, "content URI verification requires a storage client")
			}
			raw, err := deps.Storage.Download(ctx, supplied)
			if err != nil {
				return "", E(KindPublish, err)
			}
			if _, err := metadata.Validate(raw); err != nil {
				return "", Errorf(KindPublish, "content URI %s: %w", supplied, err)
			}
		}
		return supplied, nil
	}

	if deps.Storage == nil {
		return "", Errorf(KindConfiguration, "metadata upload requires a storage client")
	}

	built, err := metadata.NewTextOnly(config.Content, metadata.TextOnlyOptions{})
	if err != nil {
		return "", E(KindConfiguration, err)
	}

	uploaded, err := deps.Storage.UploadImmutable(ctx, config.Environment.ChainID, built)
	if err != nil {
		return "", E(KindPublish, err)
	}
	return uploaded.URI, nil
}

func printJSON(w io.Writer, value any, indent bool) error {
	if w == nil {
		return nil
	}
	encoder := json.NewEncoder(w)
	if indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(value)
}
