// Package cli implements the motion-engine command line.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/logging"
)

var (
	cfgFile      string
	logLevel     string
	logFormat    string
	positionType string

	appConfig = config.DefaultConfig()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&positionType, "position-type", "", "position type of motion files (scalar, joints)")
}

var rootCmd = &cobra.Command{
	Use:          "motion-engine",
	Short:        "Simulate, validate and play keyframe motions",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if logFormat != "" {
			cfg.Logging.Format = logFormat
		}
		if positionType != "" {
			cfg.PositionType = strings.ToLower(positionType)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := logging.Init(cfg.Logging, cmd.ErrOrStderr()); err != nil {
			return err
		}
		appConfig = *cfg
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
