package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/dailypicks/pkg/config"
	"github.com/wonny/dailypicks/pkg/logger"
)

var (
	// Global flags
	strategyFile string
	outputDir    string
	verbose      bool
)

// rootCmd generates picks when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dailypicks",
	Short: "Daily stock picks generator",
	Long: `Daily stock picks generator

Screens a curated ticker universe with CAN SLIM, technical momentum (7d, 24h)
and composite scoring, keeps the top 20 and writes data/daily-stocks.json and
public/data/daily-stocks.json.

Usage:
  go run ./cmd/dailypicks [command]

Examples:
  go run ./cmd/dailypicks
  go run ./cmd/dailypicks --strategy strategy.yaml
  go run ./cmd/dailypicks universe
  go run ./cmd/dailypicks schedule start`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Annotations:   generates,
	RunE:          runGenerate,
}

// generates marks commands whose failure means no picks were published
var generates = map[string]string{"generates": "true"}

const (
	generateErrorPrefix = "❌ Error generating stock picks:"
	commandErrorPrefix  = "❌ Error:"
)

// Run executes the CLI with args and returns the process exit code.
// This is called by main.main().
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	prefix := commandErrorPrefix
	if cmd != nil && cmd.Annotations["generates"] == "true" {
		prefix = generateErrorPrefix
	}
	fmt.Fprintln(stderr, prefix, err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML overriding universe and passes (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "base directory for data/ and public/data/ (default: working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
