package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/dailypicks/internal/pipeline"
	"github.com/wonny/dailypicks/pkg/config"
	"github.com/wonny/dailypicks/pkg/logger"
)

// generateCmd runs one generation (same as the bare root command)
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate daily-stocks.json once",
	Long: `Fetches the universe, runs every scoring pass, and writes the top picks.

Example:
  go run ./cmd/dailypicks generate
  go run ./cmd/dailypicks generate --output-dir ./site`,
	Annotations: generates,
	RunE:        runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return generate(ctx, cmd, cfg, log)
}

func generate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *logger.Logger) error {
	p, cleanup, err := pipeline.Build(ctx, cfg, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = p.Run(ctx)
	return err
}
