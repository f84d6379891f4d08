package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/energyhub-backend/internal/bootstrap"
	"github.com/GregMSThompson/energyhub-backend/internal/config"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

// storeFlags override the environment configuration for a single run.
type storeFlags struct {
	backend string
	file    string
	sqlite  string
}

func NewRootCmd() *cobra.Command {
	flags := new(storeFlags)

	rootCmd := &cobra.Command{
		Use:   "loanctl",
		Short: "Inspect the EnergyHub loan record store",
		Long: `loanctl opens the same loan store the API uses and reports on it.
The backend comes from LOANBACKEND and friends unless overridden by flags.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "Loan backend: file, sqlite or firestore")
	rootCmd.PersistentFlags().StringVar(&flags.file, "file", "", "Path to the JSON loans file")
	rootCmd.PersistentFlags().StringVar(&flags.sqlite, "sqlite", "", "Path to the sqlite database")

	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newShowCmd(flags))
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (f *storeFlags) config() (*config.Config, error) {
	cfg := config.New()
	if f.backend != "" {
		b, err := config.ParseLoanBackend(f.backend)
		if err != nil {
			return nil, err
		}
		cfg.LoanBackend = b
	}
	if f.file != "" {
		cfg.LoansFile = f.file
	}
	if f.sqlite != "" {
		cfg.SQLitePath = f.sqlite
	}
	// the CLI never serves /api
	cfg.AuthEnabled = false
	return cfg, nil
}

// openStore returns the configured loan store and a func releasing its
// clients. Logs go to stderr so stdout stays parseable.
func (f *storeFlags) openStore(ctx context.Context, stderr io.Writer) (bootstrap.LoanStore, func(), error) {
	cfg, err := f.config()
	if err != nil {
		return nil, nil, err
	}

	bs, err := bootstrap.Run(cfg)
	if err != nil {
		bs.Close()
		return nil, nil, err
	}
	bs.Log = logger.New(cfg.LogLevel, func(level slog.Level) slog.Handler {
		return logger.NewCloudRunHandlerWithWriter(level, stderr)
	})

	s, err := bootstrap.NewLoanStore(ctx, cfg, bs)
	if err != nil {
		bs.Close()
		return nil, nil, err
	}
	return s, bs.Close, nil
}
