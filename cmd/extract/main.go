// Command extract runs the full PUDL → capacity-expansion input
// extraction: generator clusters, hourly load curves, and transmission
// constraints, written as CSV into a per-run results folder alongside a
// copy of the settings file and the run log.
//
// Usage:
//
//	go run ./cmd/extract \
//	  -settings pudl_data_extraction.yml \
//	  -results-folder 2019-06-01 \
//	  -all-units=true
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/gridwright/genx-input-etl/internal/cluster"
	"github.com/gridwright/genx-input-etl/internal/config"
	"github.com/gridwright/genx-input-etl/internal/domain"
	"github.com/gridwright/genx-input-etl/internal/geo"
	"github.com/gridwright/genx-input-etl/internal/loadcurves"
	"github.com/gridwright/genx-input-etl/internal/observability"
	"github.com/gridwright/genx-input-etl/internal/output"
	"github.com/gridwright/genx-input-etl/internal/pipeline"
	"github.com/gridwright/genx-input-etl/internal/transmission"
	"github.com/gridwright/genx-input-etl/internal/warehouse"
)

func main() {
	settingsPath := flag.String("settings", "pudl_data_extraction.yml", "YAML settings file")
	resultsFolder := flag.String("results-folder", "", "results subfolder name (default: run timestamp)")
	allUnits := flag.Bool("all-units", true, "also write the unit-level audit table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	folder := *resultsFolder
	if folder == "" {
		folder = clock.Now().Format("2006-01-02 15.04.05")
	}

	writer, err := output.NewWriter(cfg.ResultsRoot, folder, nil, nil)
	if err != nil {
		slog.Error("failed to create results folder", "error", err)
		os.Exit(1)
	}

	logFile, err := writer.LogFile()
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := observability.NewLogger(cfg, logFile)
	metrics := observability.NewMetrics()
	writer.SetObservability(logger, metrics)

	logger.Info("reading settings file", "path", *settingsPath)
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	logger.Info("connecting to warehouse", "path", cfg.WarehousePath)
	store, err := warehouse.Open(cfg.WarehousePath, logger, metrics)
	if err != nil {
		logger.Error("failed to open warehouse", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	aggMap, err := domain.ReverseRegionMap(settings.RegionAggregations)
	if err != nil {
		logger.Error("invalid region_aggregations", "error", err)
		os.Exit(1)
	}

	// The shapefile is optional: without it, transmission rows carry zero
	// distances and a warning is logged.
	var distances transmission.DistanceProvider
	if shapes, err := geo.LoadShapefile(cfg.RegionShapefile); err != nil {
		logger.Warn("region shapefile unavailable, line distances will be zero",
			"path", cfg.RegionShapefile, "error", err)
	} else {
		logger.Info("loaded region shapes", "regions", shapes.Regions())
		distances = geo.NewDistances(shapes, aggMap)
	}

	p := pipeline.New(
		store,
		cluster.NewBuilder(store, settings, logger),
		loadcurves.NewBuilder(store, settings, logger),
		transmission.NewBuilder(store, distances, settings, logger),
		writer,
		settings,
		pipeline.Options{SettingsPath: *settingsPath, WriteAllUnits: *allUnits},
		logger,
		metrics,
		clock,
	)

	if err := p.Run(context.Background()); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
	logger.Info("results written", "folder", writer.Dir())
}
