// Package main implements the shroud CLI for checking masking policies
// and authorization decisions outside a running service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/shroud"
	"github.com/zoobzio/shroud/config"
	"github.com/zoobzio/shroud/zapmask"
	"go.uber.org/zap"
)

var (
	// configPath is the YAML config file; SHROUD_* env vars override it
	configPath string
	// version information
	version = "dev"

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shroud",
	Short: "Inspect field masking policies",
	Long: `shroud masks values with the same algorithms and tag syntax used by the
shroud library, and evaluates role-based reveal decisions.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML)")
	rootCmd.AddCommand(maskCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(authorizeCmd)
	rootCmd.AddCommand(kindsCmd)
}

// setup loads configuration and builds the redacting logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	idx := shroud.NewIndex(c.IndexOptions()...)
	zc := c.Zap()
	zc.Output = zapAddSync(cmd.ErrOrStderr())
	l, err := zapmask.NewLogger(zc, c.LogRedactor(idx))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, logger = c, l
	return nil
}
