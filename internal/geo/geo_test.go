package geo

import (
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns a 1°×1° square polygon with its lower-left corner at
// (x, y).
func square(x, y float64) geom.Polygon {
	return geom.Polygon{{
		{X: x, Y: y},
		{X: x + 1, Y: y},
		{X: x + 1, Y: y + 1},
		{X: x, Y: y + 1},
	}}
}

// writeTestShapefile creates a shapefile with one row per entry, keyed by
// the region attribute.
func writeTestShapefile(t *testing.T, path string, rows map[string]geom.Polygon) {
	t.Helper()

	enc, err := shp.NewEncoderFromFields(path, goshp.POLYGON,
		goshp.StringField(RegionAttr, 25))
	require.NoError(t, err)
	defer enc.Close()

	for region, poly := range rows {
		require.NoError(t, enc.EncodeFields(poly, region))
	}
}

func TestLoadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.shp")
	writeTestShapefile(t, path, map[string]geom.Polygon{
		"ERC_PHDL": square(-102, 34),
		"ERC_REST": square(-98, 30),
	})

	shapes, err := LoadShapefile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, shapes.Regions())
}

func TestLoadShapefile_MissingFile(t *testing.T) {
	_, err := LoadShapefile(filepath.Join(t.TempDir(), "missing.shp"))
	require.Error(t, err)
}

func TestModelRegionCentroids(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.shp")
	writeTestShapefile(t, path, map[string]geom.Polygon{
		"ERC_PHDL": square(0, 0),
		"ERC_REST": square(1, 0), // adjacent square; union is a 2×1 rectangle
		"NENG_CT":  square(10, 10),
	})

	shapes, err := LoadShapefile(path)
	require.NoError(t, err)

	aggMap := map[string]string{"ERC_PHDL": "TEXAS", "ERC_REST": "TEXAS"}
	centroids := shapes.ModelRegionCentroids(aggMap)

	require.Contains(t, centroids, "TEXAS")
	require.Contains(t, centroids, "NENG_CT")
	assert.InDelta(t, 1.0, centroids["TEXAS"].X, 1e-6)
	assert.InDelta(t, 0.5, centroids["TEXAS"].Y, 1e-6)
	assert.InDelta(t, 10.5, centroids["NENG_CT"].X, 1e-6)
}

func TestDistances_LineDistanceMiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.shp")
	writeTestShapefile(t, path, map[string]geom.Polygon{
		"A": square(-0.5, -0.5), // centroid (0, 0)
		"B": square(-0.5, 0.5),  // centroid (0, 1)
	})

	shapes, err := LoadShapefile(path)
	require.NoError(t, err)
	dist := NewDistances(shapes, nil)

	d, err := dist.LineDistanceMiles("A", "B")
	require.NoError(t, err)
	// One degree of latitude is about 69.1 miles.
	assert.InDelta(t, 69.1, d, 0.2)

	_, err = dist.LineDistanceMiles("A", "NOPE")
	require.Error(t, err)
}

func TestHaversineMiles(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		p := geom.Point{X: -98.44, Y: 31.02}
		assert.Zero(t, HaversineMiles(p, p))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := geom.Point{X: -102, Y: 34}
		b := geom.Point{X: -98, Y: 30}
		assert.InDelta(t, HaversineMiles(a, b), HaversineMiles(b, a), 1e-9)
	})

	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		a := geom.Point{X: 0, Y: 0}
		b := geom.Point{X: 1, Y: 0}
		assert.InDelta(t, 69.1, HaversineMiles(a, b), 0.2)
	})
}
