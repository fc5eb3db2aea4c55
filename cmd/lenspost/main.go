// Command lenspost publishes a text-only post to Lens from the command
// line. It defaults to a dry run; pass --publish to actually broadcast.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openclaw/lenspost-go/pkg/lens"
	"github.com/openclaw/lenspost-go/pkg/publish"
	"github.com/openclaw/lenspost-go/pkg/shared"
	"github.com/openclaw/lenspost-go/pkg/storage"
)

const defaultOrigin = "https://openclaw.local"

type rootOptions struct {
	content     string
	contentURI  string
	environment string
	origin      string
	app         string
	account     string
	feed        string
	publishFlag bool
	dryRunFlag  bool
	verifyURI   bool
	verbose     bool
	websocket   bool
	timeout     time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	exitCode := 0
	root := newRootCommand(args, stdout, stderr, &exitCode)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func newRootCommand(rawArgs []string, stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	options := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lenspost",
		Short:         "Publish a text-only post to Lens",
		Long: "lenspost publishes a text-only post to Lens using the wallet in the\n" +
			"PRIVATE_KEY environment variable. Without --publish it prints a dry-run\n" +
			"preview and makes no network calls.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := execute(cmd.Context(), options, rawArgs, stdout, stderr)
			*exitCode = outcome.ExitCode
			return err
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&options.content, "content", "", "post content (plain text)")
	flags.StringVar(&options.contentURI, "content-uri", "", "existing metadata URI; skips the upload")
	flags.StringVar(&options.environment, "environment", shared.EnvironmentMainnet, "target environment (mainnet or testnet)")
	flags.StringVar(&options.origin, "origin", defaultOrigin, "origin header sent to the API")
	flags.StringVar(&options.app, "app", "", "app address used during login")
	flags.StringVar(&options.account, "account", "", "account address; skips discovery")
	flags.StringVar(&options.feed, "feed", "", "feed address to post to")
	flags.BoolVar(&options.publishFlag, "publish", false, "actually publish instead of previewing")
	flags.BoolVar(&options.dryRunFlag, "dry-run", true, "preview without publishing")
	flags.BoolVar(&options.verifyURI, "verify-uri", false, "download and validate a supplied content URI before posting")
	flags.BoolVar(&options.verbose, "verbose", false, "enable debug logging")
	flags.BoolVar(&options.websocket, "websocket", false, "wait for indexing over a websocket subscription")
	flags.DurationVar(&options.timeout, "timeout", 2*time.Minute, "overall run timeout")

	return cmd
}

func execute(
	ctx context.Context,
	options *rootOptions,
	rawArgs []string,
	stdout, stderr io.Writer,
) (publish.Outcome, error) {
	logger := newLogger(stderr, options.verbose)

	environment, err := shared.ResolveEnvironment(options.environment)
	if err != nil {
		return publish.Outcome{ExitCode: 1}, publish.E(publish.KindArgument, err)
	}

	walletConfig, err := shared.WalletConfigFromEnv(environment.Name)
	if err != nil {
		return publish.Outcome{ExitCode: 1}, publish.E(publish.KindConfiguration, err)
	}
	wallet, err := shared.NewWallet(walletConfig.PrivateKey)
	if err != nil {
		return publish.Outcome{ExitCode: 1}, publish.E(publish.KindConfiguration, err)
	}

	mode := publish.ResolveMode(rawArgs,
		"--content", "--content-uri", "--environment", "--origin",
		"--app", "--account", "--feed", "--timeout")

	config := publish.RunConfig{
		Content:     options.content,
		ContentURI:  options.contentURI,
		Environment: environment,
		App:         options.app,
		Account:     options.account,
		Feed:        options.feed,
		Mode:        mode,
		VerifyURI:   options.verifyURI,
	}

	deps := publish.Deps{
		Wallet: wallet,
		Logger: logger,
		Stdout: stdout,
		Stderr: stderr,
	}

	if config.Mode == publish.ModePublish {
		connectionMode := lens.ConnectionModeHTTP
		if options.websocket {
			connectionMode = lens.ConnectionModeAuto
		}
		protocol, err := lens.NewClient(lens.Config{
			Environment:    environment,
			Origin:         options.origin,
			ConnectionMode: connectionMode,
			Logger:         &logger,
		})
		if err != nil {
			return publish.Outcome{ExitCode: 1}, publish.E(publish.KindConfiguration, err)
		}
		store, err := storage.NewClient(storage.Config{BaseURL: environment.StorageURL})
		if err != nil {
			return publish.Outcome{ExitCode: 1}, publish.E(publish.KindConfiguration, err)
		}
		deps.Protocol = protocol
		deps.Storage = store
		deps.Broadcast = func(ctx context.Context, raw lens.RawTransaction) (string, error) {
			return lens.SendRawTransaction(ctx, environment.RPCURL, wallet, raw)
		}
	}

	if options.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.timeout)
		defer cancel()
	}

	return publish.Run(ctx, config, deps)
}

func newLogger(stderr io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
