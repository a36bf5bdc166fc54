package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ericfisherdev/credclient/internal/adapter/driven/clixml"
	"github.com/ericfisherdev/credclient/internal/adapter/driven/keyfile"
	"github.com/ericfisherdev/credclient/internal/adapter/driven/securestring"
	"github.com/ericfisherdev/credclient/internal/application"
	"github.com/ericfisherdev/credclient/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	overrides    config.Overrides
	list         bool
	passwordOnly bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	flags := pflag.NewFlagSet("credclient", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVarP(&o.overrides.StorePath, "store", "s", "",
		"Optional, path to the credential XML file (default: auto-detect MySecrets.xml)")
	flags.StringVarP(&o.overrides.KeyPath, "key", "k", "",
		"Optional, path to the master key file (default: master.key next to the store, or auto-detect)")
	flags.StringVarP(&o.overrides.CredentialName, "name", "n", "",
		"Optional, name of the credential to decrypt (default: MyService)")
	flags.StringVar(&o.overrides.LogLevel, "log-level", "",
		"Optional, logging level: debug, info, warn or error (default: warn)")
	flags.BoolVar(&o.list, "list", false,
		"Optional, list the credential names in the store and exit")
	flags.BoolVar(&o.passwordOnly, "password-only", false,
		"Optional, print only the decrypted password")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: credclient [options]\nOptions:\n%s", flags.FlagUsagesWrapped(terminalWidth()))
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return &o, nil
}

// terminalWidth returns the width of stdout when it is a terminal, or 0 to
// disable wrapping.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func run(args []string, stdout, stderr io.Writer) error {
	// 1. Parse the command line.
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// 2. Resolve configuration (flags > env > discovery).
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.Load(workDir, opts.overrides)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Debug("config loaded",
		"store_path", cfg.StorePath,
		"key_path", cfg.KeyPath,
		"credential_name", cfg.CredentialName,
	)

	if !opts.passwordOnly && !opts.list {
		fmt.Fprintln(stdout, "[Credential Client]")
		fmt.Fprintf(stdout, "Store Path: %s\n", absPath(cfg.StorePath))
		fmt.Fprintf(stdout, "Key Path:   %s\n", absPath(cfg.KeyPath))
	}

	// 3. Parse the credential store.
	doc, err := clixml.LoadStore(cfg.StorePath)
	if err != nil {
		return err
	}
	logger.Debug("credential store loaded", "path", cfg.StorePath)

	// 4. Wire adapters.
	svc := application.NewCredentialService(doc, keyfile.Loader{Path: cfg.KeyPath}, securestring.Decryptor{}, logger)

	if opts.list {
		for _, name := range svc.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	// 5. Look up and decrypt.
	secret, err := svc.Reveal(cfg.CredentialName)
	if err != nil {
		return err
	}

	if opts.passwordOnly {
		fmt.Fprintln(stdout, secret.Password)
		return nil
	}
	fmt.Fprintf(stdout, "\nFound Credential for User: %s\n", secret.UserName)
	fmt.Fprintf(stdout, "Decrypted Password: %s\n", secret.Password)
	return nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
