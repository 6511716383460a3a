// Package cluster groups individual generating units into
// (region, technology) clusters with aggregated attributes. Clusters keep
// the capacity-expansion model's generator count tractable: one candidate
// row per region and technology instead of one per physical unit.
package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gridwright/genx-input-etl/internal/config"
	"github.com/gridwright/genx-input-etl/internal/domain"
)

// UnitSource provides raw generating-unit rows from the warehouse.
type UnitSource interface {
	GeneratingUnits(ctx context.Context) ([]domain.UnitRecord, error)
}

// Builder produces the cluster and unit tables for a run.
type Builder struct {
	source   UnitSource
	settings *config.Settings
	logger   *slog.Logger
}

// NewBuilder creates a cluster Builder.
func NewBuilder(source UnitSource, settings *config.Settings, logger *slog.Logger) *Builder {
	return &Builder{source: source, settings: settings, logger: logger}
}

// clusterKey identifies one cluster.
type clusterKey struct {
	region     string
	technology string
}

// clusterAccum accumulates per-cluster sums before the final weighted
// attributes are derived.
type clusterAccum struct {
	capacity    float64
	heatRateCap float64 // sum of capacity*heatRate, for the weighted mean
	minUnit     float64
	maxUnit     float64
	numUnits    int
	yearSum     float64
}

// Build reads generating units, relabels their regions through the
// aggregation map, drops units outside the model regions, and aggregates
// the rest into (region, technology) clusters. It returns the cluster
// table sorted by region then technology, and the full unit-level table
// for auditing.
func (b *Builder) Build(ctx context.Context, aggMap map[string]string) ([]domain.ClusterRow, []domain.UnitRow, error) {
	records, err := b.source.GeneratingUnits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("cluster build: %w", err)
	}

	keep := make(map[string]bool, len(b.settings.ModelRegions))
	for _, r := range b.settings.ModelRegions {
		keep[r] = true
	}

	accums := make(map[clusterKey]*clusterAccum)
	var units []domain.UnitRow
	var dropped int

	for _, rec := range records {
		modelRegion := domain.ModelRegionFor(rec.Region, aggMap)
		if !keep[modelRegion] {
			dropped++
			continue
		}

		tech := domain.SnakeCase(rec.Technology)
		units = append(units, domain.UnitRow{
			PlantID:       rec.PlantID,
			GeneratorID:   rec.GeneratorID,
			Region:        rec.Region,
			ModelRegion:   modelRegion,
			Technology:    tech,
			CapacityMW:    rec.CapacityMW,
			HeatRateMMBtu: rec.HeatRateMMBtu,
			OperatingYear: rec.OperatingYear,
		})

		key := clusterKey{region: modelRegion, technology: tech}
		acc, ok := accums[key]
		if !ok {
			acc = &clusterAccum{minUnit: rec.CapacityMW, maxUnit: rec.CapacityMW}
			accums[key] = acc
		}
		acc.capacity += rec.CapacityMW
		acc.heatRateCap += rec.CapacityMW * rec.HeatRateMMBtu
		acc.yearSum += float64(rec.OperatingYear)
		acc.numUnits++
		if rec.CapacityMW < acc.minUnit {
			acc.minUnit = rec.CapacityMW
		}
		if rec.CapacityMW > acc.maxUnit {
			acc.maxUnit = rec.CapacityMW
		}
	}

	clusters := make([]domain.ClusterRow, 0, len(accums))
	for key, acc := range accums {
		row := domain.ClusterRow{
			Region:            key.region,
			Technology:        key.technology,
			CapacityMW:        acc.capacity,
			MinUnitMW:         acc.minUnit,
			MaxUnitMW:         acc.maxUnit,
			NumUnits:          acc.numUnits,
			MeanOperatingYear: acc.yearSum / float64(acc.numUnits),
		}
		if acc.capacity > 0 {
			row.WeightedHeatRate = acc.heatRateCap / acc.capacity
		}
		clusters = append(clusters, row)
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Region != clusters[j].Region {
			return clusters[i].Region < clusters[j].Region
		}
		return clusters[i].Technology < clusters[j].Technology
	})

	b.logger.Info("clustered generating units",
		"units", len(units), "clusters", len(clusters), "dropped", dropped)
	return clusters, units, nil
}
