package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwright/genx-input-etl/internal/domain"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(t.TempDir(), "2019-06-01 12.00.00", nil, nil)
	require.NoError(t, err)
	return w
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteClusters_Precision(t *testing.T) {
	w := newTestWriter(t)

	err := w.WriteClusters([]domain.ClusterRow{{
		Region:            "TEXAS",
		Technology:        "conventional_steam_coal",
		Zone:              "2",
		CapacityMW:        100.12345,
		WeightedHeatRate:  10.4,
		MinUnitMW:         400,
		MaxUnitMW:         600,
		NumUnits:          2,
		MeanOperatingYear: 1985,
	}})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(w.Dir(), "generator_clusters_2019-06-01 12.00.00.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"region", "technology", "zone", "capacity_mw",
		"heat_rate_mmbtu_mwh", "min_unit_mw", "max_unit_mw", "num_units", "mean_operating_year"}, rows[0])
	// Three-decimal contract: 100.12345 → 100.123.
	assert.Equal(t, "100.123", rows[1][3])
	assert.Equal(t, "10.400", rows[1][4])
	assert.Equal(t, "2", rows[1][2])
}

func TestWriteLoadCurves_Truncation(t *testing.T) {
	w := newTestWriter(t)

	err := w.WriteLoadCurves(&domain.LoadCurves{
		TimeIndex: []int{1, 2},
		Columns:   []string{"Load_MW_z1", "Load_MW_z2"},
		Values:    [][]float64{{12.7, 99.999}, {0.4, 100.0}},
	})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(w.Dir(), "load_curves_2019-06-01 12.00.00.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"time_index", "Load_MW_z1", "Load_MW_z2"}, rows[0])
	// Truncated, not rounded: 12.7 → 12, 99.999 → 99.
	assert.Equal(t, []string{"1", "12", "99"}, rows[1])
	assert.Equal(t, []string{"2", "0", "100"}, rows[2])
}

func TestWriteTransmission_Precision(t *testing.T) {
	w := newTestWriter(t)

	err := w.WriteTransmission([]domain.TransmissionLink{{
		RegionFrom:    "TEXAS",
		RegionTo:      "NENG_CT",
		FirmTTCMW:     150,
		NonfirmTTCMW:  180.25,
		DistanceMiles: 52.37,
	}})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(w.Dir(), "transmission_constraints_2019-06-01 12.00.00.csv"))
	require.Len(t, rows, 2)
	// One-decimal contract: 52.37 → 52.4.
	assert.Equal(t, "52.4", rows[1][4])
	assert.Equal(t, "150.0", rows[1][2])
	assert.Equal(t, "180.2", rows[1][3])
}

func TestWriteUnits(t *testing.T) {
	w := newTestWriter(t)

	err := w.WriteUnits([]domain.UnitRow{{
		PlantID:       1,
		GeneratorID:   "ST1",
		Region:        "ERC_PHDL",
		ModelRegion:   "TEXAS",
		Technology:    "conventional_steam_coal",
		CapacityMW:    650,
		HeatRateMMBtu: 10.1,
		OperatingYear: 1979,
	}})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(w.Dir(), "all_units_2019-06-01 12.00.00.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "650", rows[1][5])
	assert.Equal(t, "10.1", rows[1][6])
}

func TestCopySettings(t *testing.T) {
	w := newTestWriter(t)

	src := filepath.Join(t.TempDir(), "extraction.yml")
	require.NoError(t, os.WriteFile(src, []byte("model_regions: [a]\n"), 0o600))

	require.NoError(t, w.CopySettings(src))

	copied, err := os.ReadFile(filepath.Join(w.Dir(), "extraction.yml"))
	require.NoError(t, err)
	assert.Equal(t, "model_regions: [a]\n", string(copied))
}

func TestLogFile(t *testing.T) {
	w := newTestWriter(t)

	f, err := w.LogFile()
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, filepath.Join(w.Dir(), "log.txt"), f.Name())
}
