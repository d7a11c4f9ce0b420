package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/basbook/internal/buildinfo"
	"github.com/cleared-dev/basbook/internal/config"
	"github.com/cleared-dev/basbook/internal/importer"
	"github.com/cleared-dev/basbook/internal/period"
)

// envFile is loaded by commands that read configuration.
const envFile = ".env"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "basbook",
		Short:   "Income, expense and GST summaries from transaction CSVs",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSummaryCommand(&configPath))
	rootCmd.AddCommand(newTransactionsCommand(&configPath))
	rootCmd.AddCommand(newServeCommand(&configPath))

	return rootCmd
}

// loadConfig reads the config file (defaults if absent) and applies
// .env and environment overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRegistry builds the parser registry for cfg's import settings.
func newRegistry(cfg *config.Config) (*importer.Registry, error) {
	rate, err := cfg.GSTRate()
	if err != nil {
		return nil, err
	}
	return importer.DefaultRegistry(importer.Options{
		DropUndated: cfg.Import.DropUndated,
		GSTRate:     rate,
	}), nil
}

// selectorFlags are the period flags shared by summary and transactions.
type selectorFlags struct {
	financialYear string
	basPeriod     string
	from          string
	to            string
}

func (f *selectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.financialYear, "financial-year", "", "financial year ending 30 June, e.g. 2024")
	cmd.Flags().StringVar(&f.basPeriod, "bas-period", "", "BAS quarter Q1..Q4 within --financial-year")
	cmd.Flags().StringVar(&f.from, "from", "", "start date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date YYYY-MM-DD (inclusive)")
}

func (f *selectorFlags) selector() (period.Selector, error) {
	return period.ParseSelector(f.financialYear, f.basPeriod, f.from, f.to)
}
