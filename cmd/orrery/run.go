package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/khampton353/orrery/internal/config"
	"github.com/khampton353/orrery/internal/engine"
	intOtel "github.com/khampton353/orrery/internal/otel"
	"github.com/khampton353/orrery/internal/store"
	"github.com/khampton353/orrery/internal/telemetry"
)

var (
	runTicks  int
	runRateMs int
	runSpeed  float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay stored orbits on the simulation clock",
	Long: `Load every configured planet's orbit record and drive the playback
loop from a wall-clock ticker. Positions stream to the log each tick.
Interrupt with Ctrl-C, or use --ticks for a fixed-length session.`,
	RunE: runPlayback,
}

func init() {
	runCmd.Flags().IntVar(&runTicks, "ticks", 0, "stop after this many ticks (0 means run until interrupted)")
	runCmd.Flags().IntVar(&runRateMs, "rate", 0, "milliseconds between ticks (overrides config)")
	runCmd.Flags().Float64Var(&runSpeed, "speed", -1, "initial speed multiplier (overrides config)")
}

func runPlayback(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	rateMs := config.GetInt("playback.rateMs")
	if runRateMs > 0 {
		rateMs = runRateMs
	}
	speed := config.GetFloat64("playback.speed")
	if runSpeed >= 0 {
		speed = runSpeed
	}

	planets, cfgErrs, err := config.LoadPlanets(config.GetString("planetConfig"))
	if err != nil {
		return fmt.Errorf("reading planet configuration: %w", err)
	}
	for _, cerr := range cfgErrs {
		logger.Warn("Skipping malformed planet entry", "error", cerr)
	}

	if config.GetBool("otel.enabled") {
		metricsPath := filepath.Join(config.GetString("logsDir"), "orrery.metrics.json")
		metricsFile, err := os.OpenFile(metricsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening metrics file: %w", err)
		}
		defer metricsFile.Close()

		provider, err := intOtel.New(intOtel.Config{
			Enabled:        true,
			ServiceName:    appName,
			ExportInterval: time.Duration(config.GetInt("otel.exportIntervalSec")) * time.Second,
			MetricWriter:   metricsFile,
		})
		if err != nil {
			return fmt.Errorf("initializing metrics provider: %w", err)
		}
		defer provider.Shutdown(context.Background())
	}

	st, err := store.New(zlog)
	if err != nil {
		return fmt.Errorf("opening artifact store: %w", err)
	}

	// the registry is loaded up front; the store is not touched mid-session
	e := engine.Load(st, planets, logger, speed)
	st.Close()
	if len(e.Planets()) == 0 {
		return fmt.Errorf("no playable planets, run `orrery build` first")
	}

	var tm *telemetry.Manager
	if config.GetBool("influx.enabled") {
		backup := filepath.Join(config.GetString("logsDir"), "telemetry_backup.gz")
		tm = telemetry.NewManager(zlog, backup)
		if err := tm.Connect(); err != nil {
			zlog.Warn().Err(err).Msg("Telemetry disabled for this session")
			tm = nil
		} else {
			defer tm.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Playback started",
		"planets", len(e.Planets()), "rateMs", rateMs, "speed", speed)

	ticker := time.NewTicker(time.Duration(rateMs) * time.Millisecond)
	defer ticker.Stop()

	for done := 0; runTicks == 0 || done < runTicks; {
		select {
		case <-ctx.Done():
			logger.Info("Playback interrupted", "ticks", done, "elapsedDays", e.ElapsedDays())
			return nil
		case <-ticker.C:
			start := time.Now()
			e.Tick()
			done++

			for name, pos := range e.Positions() {
				logger.Debug("Position", "planet", name, "x", pos.X, "y", pos.Y)
			}
			if tm != nil {
				p := telemetry.PlaybackPoint(e.ElapsedDays(), e.Speed(), time.Since(start), len(e.Planets()))
				if err := tm.WritePoint(ctx, telemetry.BucketPlayback, p); err != nil {
					zlog.Warn().Err(err).Msg("Dropping playback telemetry point")
				}
			}
		}
	}

	logger.Info("Playback finished", "ticks", runTicks, "elapsedDays", e.ElapsedDays())
	return nil
}
