package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbengine/predictarb/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the running engine's readiness and per-component health",
	Long: `Fetches /ready and /checks from the running engine's HTTP server and
prints the result. Exits non-zero if the engine isn't ready.`,
	RunE: runHealth,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := fetchAndPrint(cfg.HTTPPort, "/checks"); err != nil {
		return err
	}
	return fetchAndPrint(cfg.HTTPPort, "/ready")
}
