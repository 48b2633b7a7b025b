package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/config"
	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/version"
)

// cfg is the loaded configuration, set before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "a11y-bridge",
	Short: "Project accessibility trees onto native platform APIs",
	Long: `A tool for replaying and inspecting abstract accessibility trees as UI Automation,
AT-SPI, or headless platforms would see them, and for serving them to agents over MCP.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log to stderr at this level: debug, info, warn, error")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		output.Writer = cmd.OutOrStdout()

		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
			loaded.Log.Enabled = true
			loaded.Log.Level = level
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded
		return logger.Init(cfg.LoggerOptions(cmd.ErrOrStderr()))
	}
}
