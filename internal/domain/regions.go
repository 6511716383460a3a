package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ZoneMap assigns each model region a stable 1-based string index used in
// downstream column names ("Load_MW_z3"). Indices are dense, contiguous,
// and follow sorted region-name order.
type ZoneMap map[string]string

// BuildZoneMap sorts the model regions lexicographically and numbers them
// "1"…"n". The input slice is not modified. Identical region sets always
// produce identical numbering regardless of input order.
func BuildZoneMap(modelRegions []string) ZoneMap {
	sorted := make([]string, len(modelRegions))
	copy(sorted, modelRegions)
	sort.Strings(sorted)

	zones := make(ZoneMap, len(sorted))
	for i, region := range sorted {
		zones[region] = strconv.Itoa(i + 1)
	}
	return zones
}

// Regions returns the model regions in zone-index order.
func (z ZoneMap) Regions() []string {
	regions := make([]string, 0, len(z))
	for region := range z {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// ValidateModelRegions returns the model regions that are neither reference
// regions nor aggregation names, sorted. An empty result means the settings
// are consistent with the warehouse geography.
func ValidateModelRegions(modelRegions []string, aggregations map[string][]string, referenceIDs []string) []string {
	valid := make(map[string]bool, len(referenceIDs)+len(aggregations))
	for _, id := range referenceIDs {
		valid[id] = true
	}
	for name := range aggregations {
		valid[name] = true
	}

	var unknown []string
	for _, region := range modelRegions {
		if !valid[region] {
			unknown = append(unknown, region)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// AggregationShadows returns aggregation names that collide with reference
// region identifiers. A shadowing aggregate makes the relabeled output
// ambiguous: rows keyed by the reference region would be indistinguishable
// from rows keyed by the aggregate.
func AggregationShadows(aggregations map[string][]string, referenceIDs []string) []string {
	refs := make(map[string]bool, len(referenceIDs))
	for _, id := range referenceIDs {
		refs[id] = true
	}

	var shadows []string
	for name := range aggregations {
		if refs[name] {
			shadows = append(shadows, name)
		}
	}
	sort.Strings(shadows)
	return shadows
}

// ReverseRegionMap inverts an aggregate → members mapping into a
// member → aggregate map. A member appearing under two aggregates is a
// configuration error: a silent overwrite would keep only the last-seen
// aggregate and misassign every record in that region.
func ReverseRegionMap(aggregations map[string][]string) (map[string]string, error) {
	// Iterate aggregate names in sorted order so the error message is
	// deterministic when a member appears under more than one aggregate.
	names := make([]string, 0, len(aggregations))
	for name := range aggregations {
		names = append(names, name)
	}
	sort.Strings(names)

	reversed := make(map[string]string)
	for _, name := range names {
		for _, member := range aggregations[name] {
			if prev, ok := reversed[member]; ok && prev != name {
				return nil, fmt.Errorf("region %q is a member of both %q and %q aggregations", member, prev, name)
			}
			reversed[member] = name
		}
	}
	return reversed, nil
}

// MapAggRegionNames relabels region values through a member → aggregate
// map. Values that are aggregation members become the aggregate name; all
// other values pass through unchanged.
func MapAggRegionNames(regions []string, aggMap map[string]string) []string {
	mapped := make([]string, len(regions))
	for i, region := range regions {
		if agg, ok := aggMap[region]; ok {
			mapped[i] = agg
			continue
		}
		mapped[i] = region
	}
	return mapped
}

// ModelRegionFor maps a single raw region label through the aggregation.
func ModelRegionFor(region string, aggMap map[string]string) string {
	if agg, ok := aggMap[region]; ok {
		return agg
	}
	return region
}

var nonAlnumRe = regexp.MustCompile(`[^0-9a-z\-]+`)

// SnakeCase normalizes a free-text label (e.g. an EIA technology
// description like "Natural Gas Fired Combined Cycle") into a snake_case
// identifier suitable for grouping and column names.
func SnakeCase(s string) string {
	clean := strings.ToLower(s)
	clean = nonAlnumRe.ReplaceAllString(clean, " ")
	clean = strings.ReplaceAll(clean, "-", "")
	clean = strings.TrimSpace(clean)
	return strings.ReplaceAll(clean, " ", "_")
}
