// Package command holds the yatube command line.
package command

import (
	"fmt"
	"os"
	"strings"
	"time"

	"yatube/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	appCfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "yatube",
	Short: "Yatube blogging service",
	Long:  `Yatube serves a small blogging site: post listings, groups, author profiles and post authoring.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setLogging(logLevel)

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		appCfg = cfg
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"path to the configuration file")
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
