package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loganmanery/credvault/internal/config"
	"github.com/loganmanery/credvault/internal/logger"
	"github.com/loganmanery/credvault/pkg/vault"
)

// app carries state shared by the subcommands of one invocation
type app struct {
	cfgFile string
	dbPath  string
	verbose bool

	cfg    *config.Config
	log    *slog.Logger
	reader *bufio.Reader
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "credvault",
		Short: "Local encrypted vault for website credentials",
		Long: `credvault stores website/username/password entries in a local SQLite
database. Passwords are encrypted with AES-256-GCM under a key derived
from your passphrase with Argon2id.

The passphrase is read from CREDVAULT_PASSPHRASE or prompted for.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.credvault/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file (overrides db_path)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newRevealCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newGenerateCmd(),
	)

	return root
}

// setup loads configuration and the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.reader = bufio.NewReader(cmd.InOrStdin())
	return nil
}

// openVault unlocks the configured vault, prompting for the passphrase
// when it is not configured
func (a *app) openVault(cmd *cobra.Command) (*vault.Vault, error) {
	passphrase := a.cfg.Passphrase
	if passphrase == "" {
		var err error
		passphrase, err = a.readSecret(cmd, "Passphrase: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", err)
		}
	}

	a.log.Debug("opening vault", "path", a.cfg.DBPath)
	return vault.Open(vault.Options{DBPath: a.cfg.DBPath, Logger: a.log}, passphrase)
}
