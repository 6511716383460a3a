// Package geo supplies the boundary-polygon geometry behind transmission
// line distances. Reference-region polygons come from a shapefile in
// WGS-84 lon/lat; model-region shapes are unions of their member
// polygons, and distances are great-circle miles between centroids.
package geo

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/gridwright/genx-input-etl/internal/domain"
)

// RegionAttr is the shapefile attribute column holding the reference
// region identifier.
const RegionAttr = "IPM_Region"

// earthRadiusMiles is the mean Earth radius.
const earthRadiusMiles = 3958.8

// RegionShapes holds one polygon per reference region.
type RegionShapes struct {
	shapes map[string]geom.Polygonal
}

// LoadShapefile reads region boundary polygons from the shapefile at
// path, keyed by the RegionAttr attribute. Rows for the same region are
// unioned into a single shape.
func LoadShapefile(path string) (*RegionShapes, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("open region shapefile %s: %w", path, err)
	}
	defer dec.Close()

	shapes := make(map[string]geom.Polygonal)
	for {
		g, fields, more := dec.DecodeRowFields(RegionAttr)
		if !more {
			break
		}
		region, ok := fields[RegionAttr]
		if !ok || region == "" {
			return nil, fmt.Errorf("region shapefile %s: row missing %s attribute", path, RegionAttr)
		}
		poly, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("region shapefile %s: region %s is not polygonal", path, region)
		}
		if existing, ok := shapes[region]; ok {
			shapes[region] = existing.Union(poly)
			continue
		}
		shapes[region] = poly
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("decode region shapefile %s: %w", path, err)
	}

	return &RegionShapes{shapes: shapes}, nil
}

// Regions returns the number of distinct regions loaded.
func (r *RegionShapes) Regions() int {
	return len(r.shapes)
}

// ModelRegionCentroids dissolves reference shapes into model regions via
// the member → aggregate map and returns each model region's centroid.
// Reference regions without a shapefile entry are skipped; callers fail
// later if a needed centroid is missing.
func (r *RegionShapes) ModelRegionCentroids(aggMap map[string]string) map[string]geom.Point {
	merged := make(map[string]geom.Polygonal)
	for region, shape := range r.shapes {
		model := domain.ModelRegionFor(region, aggMap)
		if existing, ok := merged[model]; ok {
			merged[model] = existing.Union(shape)
			continue
		}
		merged[model] = shape
	}

	centroids := make(map[string]geom.Point, len(merged))
	for model, shape := range merged {
		centroids[model] = shape.Centroid()
	}
	return centroids
}

// Distances precomputes model-region centroids and answers line-distance
// queries for the transmission builder.
type Distances struct {
	centroids map[string]geom.Point
}

// NewDistances builds a distance provider from the loaded shapes and the
// aggregation map.
func NewDistances(shapes *RegionShapes, aggMap map[string]string) *Distances {
	return &Distances{centroids: shapes.ModelRegionCentroids(aggMap)}
}

// LineDistanceMiles returns the great-circle distance between the
// centroids of two model regions.
func (d *Distances) LineDistanceMiles(from, to string) (float64, error) {
	a, ok := d.centroids[from]
	if !ok {
		return 0, fmt.Errorf("no boundary shape for region %q", from)
	}
	b, ok := d.centroids[to]
	if !ok {
		return 0, fmt.Errorf("no boundary shape for region %q", to)
	}
	return HaversineMiles(a, b), nil
}

// HaversineMiles computes the great-circle distance in miles between two
// lon/lat points.
func HaversineMiles(a, b geom.Point) float64 {
	lat1 := a.Y * math.Pi / 180
	lat2 := b.Y * math.Pi / 180
	dLat := (b.Y - a.Y) * math.Pi / 180
	dLon := (b.X - a.X) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}
