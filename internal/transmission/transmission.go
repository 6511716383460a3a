// Package transmission aggregates pairwise transfer-capacity constraints
// between model regions and attaches physical line distances.
package transmission

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gridwright/genx-input-etl/internal/config"
	"github.com/gridwright/genx-input-etl/internal/domain"
)

// ConstraintSource provides raw directed transfer-capacity records.
type ConstraintSource interface {
	TransmissionRecords(ctx context.Context) ([]domain.TransmissionRecord, error)
}

// DistanceProvider answers line-distance queries between model regions.
type DistanceProvider interface {
	LineDistanceMiles(from, to string) (float64, error)
}

// Builder produces the transmission-constraint table for a run.
type Builder struct {
	source    ConstraintSource
	distances DistanceProvider
	settings  *config.Settings
	logger    *slog.Logger
}

// NewBuilder creates a transmission Builder. distances may be nil, in
// which case links are emitted with zero distance (no shapefile
// configured).
func NewBuilder(source ConstraintSource, distances DistanceProvider, settings *config.Settings, logger *slog.Logger) *Builder {
	return &Builder{source: source, distances: distances, settings: settings, logger: logger}
}

// Build maps both endpoints of every raw constraint through the
// aggregation, drops links the aggregation collapses into a single region
// and links touching regions outside the model, sums capacities per
// directed (from, to) pair, and attaches centroid-to-centroid great-circle
// distances.
func (b *Builder) Build(ctx context.Context, aggMap map[string]string) ([]domain.TransmissionLink, error) {
	records, err := b.source.TransmissionRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("transmission build: %w", err)
	}

	keep := make(map[string]bool, len(b.settings.ModelRegions))
	for _, r := range b.settings.ModelRegions {
		keep[r] = true
	}

	type pair struct{ from, to string }
	sums := make(map[pair]*domain.TransmissionLink)
	var collapsed, outside int

	for _, rec := range records {
		from := domain.ModelRegionFor(rec.RegionFrom, aggMap)
		to := domain.ModelRegionFor(rec.RegionTo, aggMap)
		if from == to {
			// Both endpoints landed in the same model region; the
			// aggregation absorbed this link.
			collapsed++
			continue
		}
		if !keep[from] || !keep[to] {
			outside++
			continue
		}

		key := pair{from: from, to: to}
		link, ok := sums[key]
		if !ok {
			link = &domain.TransmissionLink{RegionFrom: from, RegionTo: to}
			sums[key] = link
		}
		link.FirmTTCMW += rec.FirmTTCMW
		link.NonfirmTTCMW += rec.NonfirmTTCMW
	}

	links := make([]domain.TransmissionLink, 0, len(sums))
	for _, link := range sums {
		links = append(links, *link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].RegionFrom != links[j].RegionFrom {
			return links[i].RegionFrom < links[j].RegionFrom
		}
		return links[i].RegionTo < links[j].RegionTo
	})

	if b.distances != nil {
		for i := range links {
			d, err := b.distances.LineDistanceMiles(links[i].RegionFrom, links[i].RegionTo)
			if err != nil {
				return nil, fmt.Errorf("line distance %s-%s: %w", links[i].RegionFrom, links[i].RegionTo, err)
			}
			links[i].DistanceMiles = d
		}
	}

	b.logger.Info("aggregated transmission constraints",
		"links", len(links), "collapsed", collapsed, "outside_model", outside)
	return links, nil
}
