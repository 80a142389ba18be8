package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/contrib/internal/config"
	"github.com/aretw0/contrib/internal/logging"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once flags and contrib.yaml are read.
var app struct {
	cfg    config.Config
	logger *slog.Logger
}

var rootCmd = &cobra.Command{
	Use:   "contrib",
	Short: "contrib builds and serves extension contributions",
	Long: `contrib turns a declarative contributions file into the activationEvents and
contributes sections of an extension manifest, checks and evaluates when-clauses,
and bridges a host to HTTP and MCP clients.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("file") {
			cfg.Contributions, _ = flags.GetString("file")
		}
		if flags.Changed("log-level") {
			cfg.LogLevel, _ = flags.GetString("log-level")
		}
		if flags.Changed("log-format") {
			cfg.LogFormat, _ = flags.GetString("log-format")
		}
		if flags.Changed("redis") {
			cfg.Redis.Addr, _ = flags.GetString("redis")
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		switch cfg.LogFormat {
		case "json":
			app.logger = logging.NewJSON(os.Stderr, level)
		case "text", "":
			app.logger = logging.New(level)
		default:
			return fmt.Errorf("unknown log format %q (want text or json)", cfg.LogFormat)
		}
		app.cfg = cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to contrib.yaml (default ./contrib.yaml if present)")
	rootCmd.PersistentFlags().StringP("file", "f", "contributions.yaml", "Contributions file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for the context store (default in memory)")
}
