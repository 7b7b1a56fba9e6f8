package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khampton353/orrery/internal/builder"
	"github.com/khampton353/orrery/internal/config"
	"github.com/khampton353/orrery/internal/store"
	"github.com/khampton353/orrery/internal/telemetry"
)

var (
	buildDataDir string
	buildOutDir  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Preprocess ephemeris tables into orbit artifacts",
	Long: `Read every planet named in the planet configuration file, extract the
most recent complete revolution from its ephemeris table, and store the
resulting orbit record. Planets are processed independently; one bad
table does not stop the batch.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDataDir, "data", "", "directory containing raw ephemeris tables (overrides config)")
	buildCmd.Flags().StringVar(&buildOutDir, "out", "", "artifact output directory (overrides config)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildDataDir != "" {
		viper.Set("dataDir", buildDataDir)
	}
	if buildOutDir != "" {
		viper.Set("artifactDir", buildOutDir)
	}
	logger := logManager.Logger()

	if t := viper.GetString("storage.type"); t == "file" {
		if err := os.MkdirAll(config.GetString("artifactDir"), 0755); err != nil {
			return fmt.Errorf("creating artifact directory: %w", err)
		}
	}

	planets, cfgErrs, err := config.LoadPlanets(config.GetString("planetConfig"))
	if err != nil {
		return fmt.Errorf("reading planet configuration: %w", err)
	}

	st, err := store.New(zlog)
	if err != nil {
		return fmt.Errorf("opening artifact store: %w", err)
	}
	defer st.Close()

	report := builder.New(config.GetString("dataDir"), st, logger).
		BuildAll(planets, cfgErrs)

	if config.GetBool("influx.enabled") {
		exportBuildReport(report)
	}

	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Printf("FAIL  %-10s %v\n", res.Planet, res.Err)
			continue
		}
		fmt.Printf("OK    %-10s %4d points, %s sampled, interval %.3f days\n",
			res.Planet, res.Record.Len(), res.Record.Granularity, res.Record.IntervalDays)
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d planets failed", len(report.Failed()), len(report.Results))
	}
	logger.Info("Build complete", "planets", len(report.Results))
	return nil
}

// exportBuildReport ships per-planet build measurements to InfluxDB. Export
// failures are logged and never fail the build.
func exportBuildReport(report *builder.Report) {
	backup := filepath.Join(config.GetString("logsDir"), "telemetry_backup.gz")
	tm := telemetry.NewManager(zlog, backup)
	if err := tm.Connect(); err != nil {
		zlog.Warn().Err(err).Msg("Telemetry disabled for this build")
		return
	}
	defer tm.Close()

	ctx := context.Background()
	for _, res := range report.Results {
		points := 0
		if res.Record != nil {
			points = res.Record.Len()
		}
		p := telemetry.BuildPoint(res.Planet, res.Err == nil, res.Duration, points)
		if err := tm.WritePoint(ctx, telemetry.BucketBuild, p); err != nil {
			zlog.Warn().Err(err).Str("planet", res.Planet).Msg("Dropping build telemetry point")
		}
	}
}
