package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khampton353/orrery/internal/config"
	"github.com/khampton353/orrery/internal/logging"
)

const appName = "orrery"

var (
	configDir string

	sessionStart = time.Now()

	logManager = logging.NewManager()
	logFile    *os.File

	// zlog feeds the packages that log through zerolog (storage, telemetry).
	zlog zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "orrery",
	Short: "Planetary orbit preprocessing and playback",
	Long: `orrery converts raw JPL Horizons vector tables into compact per-planet
orbit artifacts and replays them on a shared speed-controlled simulation
clock.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// setup loads configuration and wires logging before any subcommand runs.
// A missing config file is not fatal; defaults apply.
func setup(cmd *cobra.Command, args []string) error {
	cfgErr := config.Load(configDir)

	logsDir := config.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}

	logPath := logging.LogFilePath(logsDir, appName, sessionStart)
	var err error
	logFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening session log file: %w", err)
	}

	opts := logging.Options{
		Level: config.GetString("logLevel"),
		File:  logFile,
	}
	if config.GetBool("graylog.enabled") {
		opts.GelfAddress = config.GetString("graylog.address")
	}
	if err := logManager.Setup(opts); err != nil {
		logManager.Logger().Warn("Graylog target unavailable", "error", err)
	}

	if cfgErr != nil {
		logManager.Logger().Warn("Failed to load config, using defaults!", "error", cfgErr)
	} else {
		logManager.Logger().Info("Loaded config", "file", viper.ConfigFileUsed())
	}

	zlog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logFile != nil {
		logFile.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing orrery.cfg.json")
	rootCmd.AddCommand(buildCmd, runCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
