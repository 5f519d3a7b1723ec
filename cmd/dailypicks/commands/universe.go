package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/dailypicks/internal/strategyconfig"
)

// universeCmd lists the screening universe
var universeCmd = &cobra.Command{
	Use:   "universe [SYMBOL...]",
	Short: "Print the ticker universe by category",
	Long: `Prints the categories and symbols a run screens, from --strategy or the built-in list.
With symbols, prints the category each one is screened under.

Example:
  go run ./cmd/dailypicks universe
  go run ./cmd/dailypicks universe NVDA GME
  go run ./cmd/dailypicks universe --strategy strategy.yaml`,
	RunE: runUniverse,
}

func init() {
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	strategyCfg, err := strategyconfig.Resolve(cfg.StrategyFile)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}
	u := strategyCfg.Strategy().Universe

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		for _, symbol := range args {
			symbol = strings.ToUpper(symbol)
			if category, ok := u.CategoryOf(symbol); ok {
				fmt.Fprintf(out, "%s: %s\n", symbol, category)
			} else {
				fmt.Fprintf(out, "%s: not in universe\n", symbol)
			}
		}
		return nil
	}

	PrintDoubleSeparator(out)
	fmt.Fprintf(out, "  Universe: %d symbols in %d categories\n", u.Count(), len(u.Categories))
	PrintSeparator(out)
	for _, c := range u.Categories {
		fmt.Fprintf(out, "  %-20s %s\n", c.Name, strings.Join(c.Symbols, ", "))
	}
	PrintDoubleSeparator(out)

	return nil
}
