// elmchart manages populations and their concentration results:
// - migrate applies the schema to sqlite or postgres
// - seed fills a population with synthetic results over the trailing window
// - samples prints a population's {id, results} sample as JSON
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"elmchart/ready/internal/config"
	"elmchart/ready/internal/logging"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// app carries state resolved by the root command before any subcommand runs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "elmchart",
		Short:         "Population results store and sample generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ~/.elmchart/config.yaml)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite | postgres")
	rootCmd.PersistentFlags().String("dsn", "", "SQLite file path or Postgres connection URL")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info | debug | trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newMigrateCmd(a),
		newPopulationCmd(a),
		newSeedCmd(a),
		newSamplesCmd(a),
	)
	return rootCmd
}

// init loads config, applies flag overrides and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v, _ := cmd.Flags().GetString("dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "elmchart version %s\n", version)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
