// Package loadcurves builds the wide hourly load table: one column per
// model-region zone, values in MW.
package loadcurves

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gridwright/genx-input-etl/internal/config"
	"github.com/gridwright/genx-input-etl/internal/domain"
)

// CurveSource provides raw hourly load rows for a set of reference regions.
type CurveSource interface {
	LoadCurveRows(ctx context.Context, regions []string) ([]domain.LoadRow, error)
}

// Builder produces the load-curve table for a run.
type Builder struct {
	source   CurveSource
	settings *config.Settings
	logger   *slog.Logger
}

// NewBuilder creates a load-curve Builder.
func NewBuilder(source CurveSource, settings *config.Settings, logger *slog.Logger) *Builder {
	return &Builder{source: source, settings: settings, logger: logger}
}

// KeepRegions returns the reference regions whose load rows feed the model:
// the non-aggregate model regions plus every aggregation member. Aggregate
// names themselves never appear in the warehouse and are excluded.
func KeepRegions(modelRegions []string, aggMap map[string]string) []string {
	aggNames := make(map[string]bool)
	for _, agg := range aggMap {
		aggNames[agg] = true
	}

	seen := make(map[string]bool)
	var keep []string
	add := func(r string) {
		if !aggNames[r] && !seen[r] {
			seen[r] = true
			keep = append(keep, r)
		}
	}
	for _, r := range modelRegions {
		add(r)
	}
	members := make([]string, 0, len(aggMap))
	for member := range aggMap {
		members = append(members, member)
	}
	sort.Strings(members)
	for _, m := range members {
		add(m)
	}
	return keep
}

// Build retrieves the hourly load series, sums member regions into their
// aggregates, pivots the result wide, and renames columns to
// Load_MW_z<zone>. Values remain float MW; the writer truncates on output.
func (b *Builder) Build(ctx context.Context, aggMap map[string]string, zones domain.ZoneMap) (*domain.LoadCurves, error) {
	keep := KeepRegions(b.settings.ModelRegions, aggMap)
	b.logger.Info("loading hourly load curves", "regions", len(keep))

	rows, err := b.source.LoadCurveRows(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("load curve build: %w", err)
	}

	// Sum by (model region, time index).
	sums := make(map[int]map[string]float64)
	for _, row := range rows {
		model := domain.ModelRegionFor(row.Region, aggMap)
		if _, ok := sums[row.TimeIndex]; !ok {
			sums[row.TimeIndex] = make(map[string]float64)
		}
		sums[row.TimeIndex][model] += row.LoadMW
	}

	times := make([]int, 0, len(sums))
	for ti := range sums {
		times = append(times, ti)
	}
	sort.Ints(times)

	// Zone-index order is sorted region-name order, so the columns come out
	// Load_MW_z1, Load_MW_z2, … left to right.
	regions := zones.Regions()
	columns := make([]string, len(regions))
	for i, region := range regions {
		columns[i] = "Load_MW_z" + zones[region]
	}

	values := make([][]float64, len(times))
	for i, ti := range times {
		row := make([]float64, len(regions))
		for j, region := range regions {
			row[j] = sums[ti][region]
		}
		values[i] = row
	}

	b.logger.Info("built load curves", "hours", len(times), "zones", len(columns))
	return &domain.LoadCurves{TimeIndex: times, Columns: columns, Values: values}, nil
}
