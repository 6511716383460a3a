// Package pipeline orchestrates one extraction run: validate regions,
// build the zone numbering, then run the cluster, load-curve, and
// transmission builders and hand their tables to the writer. Stages run
// sequentially because each consumes the previous stage's output; a
// failed stage aborts the run with no retries.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gridwright/genx-input-etl/internal/config"
	"github.com/gridwright/genx-input-etl/internal/domain"
	"github.com/gridwright/genx-input-etl/internal/observability"
)

// RegionRegistry provides the warehouse's canonical reference regions.
type RegionRegistry interface {
	RegionIDs(ctx context.Context) ([]string, error)
}

// ClusterBuilder produces the generator cluster and unit tables.
type ClusterBuilder interface {
	Build(ctx context.Context, aggMap map[string]string) ([]domain.ClusterRow, []domain.UnitRow, error)
}

// LoadCurveBuilder produces the wide hourly load table.
type LoadCurveBuilder interface {
	Build(ctx context.Context, aggMap map[string]string, zones domain.ZoneMap) (*domain.LoadCurves, error)
}

// TransmissionBuilder produces the aggregated constraint table.
type TransmissionBuilder interface {
	Build(ctx context.Context, aggMap map[string]string) ([]domain.TransmissionLink, error)
}

// OutputWriter persists the final tables.
type OutputWriter interface {
	WriteClusters(clusters []domain.ClusterRow) error
	WriteUnits(units []domain.UnitRow) error
	WriteLoadCurves(lc *domain.LoadCurves) error
	WriteTransmission(links []domain.TransmissionLink) error
	CopySettings(path string) error
}

// Options carries per-run choices that are not part of the settings file.
type Options struct {
	SettingsPath  string // copied into the results folder
	WriteAllUnits bool
}

// Pipeline wires the stages of one extraction run.
type Pipeline struct {
	registry     RegionRegistry
	clusters     ClusterBuilder
	load         LoadCurveBuilder
	transmission TransmissionBuilder
	writer       OutputWriter
	settings     *config.Settings
	opts         Options
	logger       *slog.Logger
	metrics      *observability.Metrics
	clock        clockwork.Clock
}

// New creates a Pipeline.
func New(registry RegionRegistry, clusters ClusterBuilder, load LoadCurveBuilder,
	transmission TransmissionBuilder, writer OutputWriter, settings *config.Settings,
	opts Options, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	return &Pipeline{
		registry:     registry,
		clusters:     clusters,
		load:         load,
		transmission: transmission,
		writer:       writer,
		settings:     settings,
		opts:         opts,
		logger:       logger,
		metrics:      metrics,
		clock:        clock,
	}
}

// Run executes the full extraction.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.clock.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	referenceIDs, err := timedStage(p.metrics, "reference_regions", func() ([]string, error) {
		return p.registry.RegionIDs(ctx)
	})
	if err != nil {
		return fmt.Errorf("fetch reference regions: %w", err)
	}
	p.logger.Info("fetched reference regions", "count", len(referenceIDs))

	// Soft validation: unknown regions are warned about, not rejected. The
	// run continues so operators can inspect partial output, and the
	// pre-flight validate command offers the strict check.
	unknown := domain.ValidateModelRegions(p.settings.ModelRegions, p.settings.RegionAggregations, referenceIDs)
	if len(unknown) > 0 {
		p.logger.Warn("one or more model regions is not a reference region or a declared aggregation",
			"regions", strings.Join(unknown, ", "))
		p.metrics.ValidationWarnings.Inc()
	}
	if shadows := domain.AggregationShadows(p.settings.RegionAggregations, referenceIDs); len(shadows) > 0 {
		p.logger.Warn("aggregation names shadow reference regions",
			"regions", strings.Join(shadows, ", "))
		p.metrics.ValidationWarnings.Inc()
	}

	// Duplicate aggregate membership is a hard error: a silently
	// overwritten reverse map would misassign whole regions.
	aggMap, err := domain.ReverseRegionMap(p.settings.RegionAggregations)
	if err != nil {
		return fmt.Errorf("invalid region_aggregations: %w", err)
	}

	zones := domain.BuildZoneMap(p.settings.ModelRegions)
	p.logger.Info("assigned zones", "regions", strings.Join(zones.Regions(), ", "))

	clusters, units, err := timedStage2(p.metrics, "generator_clusters", func() ([]domain.ClusterRow, []domain.UnitRow, error) {
		return p.clusters.Build(ctx, aggMap)
	})
	if err != nil {
		return err
	}
	for i := range clusters {
		clusters[i].Zone = zones[clusters[i].Region]
	}

	lc, err := timedStage(p.metrics, "load_curves", func() (*domain.LoadCurves, error) {
		return p.load.Build(ctx, aggMap, zones)
	})
	if err != nil {
		return err
	}

	links, err := timedStage(p.metrics, "transmission", func() ([]domain.TransmissionLink, error) {
		return p.transmission.Build(ctx, aggMap)
	})
	if err != nil {
		return err
	}

	p.logger.Info("writing model input files")
	if err := p.writer.WriteClusters(clusters); err != nil {
		return err
	}
	if p.opts.WriteAllUnits {
		if err := p.writer.WriteUnits(units); err != nil {
			return err
		}
	}
	if err := p.writer.WriteLoadCurves(lc); err != nil {
		return err
	}
	if err := p.writer.WriteTransmission(links); err != nil {
		return err
	}
	if err := p.writer.CopySettings(p.opts.SettingsPath); err != nil {
		return err
	}

	p.logger.Info("extraction complete", "duration", p.clock.Since(start).String())
	return nil
}

// timedStage runs fn and records its duration under the stage label.
func timedStage[T any](m *observability.Metrics, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return v, err
}

func timedStage2[A, B any](m *observability.Metrics, stage string, fn func() (A, B, error)) (A, B, error) {
	start := time.Now()
	a, b, err := fn()
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return a, b, err
}
