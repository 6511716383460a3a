// Package output serializes the final tables to CSV in the per-run
// results folder.
//
// Each table has its own precision contract, matched to what the
// downstream model expects: cluster floats at three decimals, transmission
// floats at one decimal, and load values truncated to integer MW.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gridwright/genx-input-etl/internal/domain"
	"github.com/gridwright/genx-input-etl/internal/observability"
)

// Writer writes one run's output files into a results subfolder. The
// folder name doubles as the file tag: generator_clusters_<tag>.csv.
type Writer struct {
	dir     string
	tag     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates the results folder root/tag (and parents) and returns
// a Writer for it.
func NewWriter(root, tag string, logger *slog.Logger, metrics *observability.Metrics) (*Writer, error) {
	dir := filepath.Join(root, tag)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results folder: %w", err)
	}
	return &Writer{dir: dir, tag: tag, logger: logger, metrics: metrics}, nil
}

// Dir returns the results folder path.
func (w *Writer) Dir() string {
	return w.dir
}

// SetObservability attaches the logger and metrics after construction.
// The writer is created before the logger because the run log lives
// inside the results folder the writer owns.
func (w *Writer) SetObservability(logger *slog.Logger, metrics *observability.Metrics) {
	w.logger = logger
	w.metrics = metrics
}

// LogFile creates the run's log.txt inside the results folder. The caller
// owns closing it.
func (w *Writer) LogFile() (*os.File, error) {
	f, err := os.Create(filepath.Join(w.dir, "log.txt"))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return f, nil
}

// CopySettings copies the settings file into the results folder so every
// run records the configuration that produced it.
func (w *Writer) CopySettings(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("copy settings: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(w.dir, filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("copy settings: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy settings: %w", err)
	}
	return nil
}

// WriteClusters writes generator_clusters_<tag>.csv with three-decimal
// float formatting.
func (w *Writer) WriteClusters(clusters []domain.ClusterRow) error {
	header := []string{"region", "technology", "zone", "capacity_mw",
		"heat_rate_mmbtu_mwh", "min_unit_mw", "max_unit_mw", "num_units", "mean_operating_year"}

	rows := make([][]string, len(clusters))
	for i, c := range clusters {
		rows[i] = []string{
			c.Region,
			c.Technology,
			c.Zone,
			float3(c.CapacityMW),
			float3(c.WeightedHeatRate),
			float3(c.MinUnitMW),
			float3(c.MaxUnitMW),
			strconv.Itoa(c.NumUnits),
			float3(c.MeanOperatingYear),
		}
	}
	return w.writeCSV("generator_clusters_"+w.tag+".csv", header, rows)
}

// WriteUnits writes the optional unit-level audit table. Unit attributes
// keep full float precision; this table is for debugging, not the model.
func (w *Writer) WriteUnits(units []domain.UnitRow) error {
	header := []string{"plant_id_eia", "generator_id", "region", "model_region",
		"technology", "capacity_mw", "heat_rate_mmbtu_mwh", "operating_year"}

	rows := make([][]string, len(units))
	for i, u := range units {
		rows[i] = []string{
			strconv.Itoa(u.PlantID),
			u.GeneratorID,
			u.Region,
			u.ModelRegion,
			u.Technology,
			strconv.FormatFloat(u.CapacityMW, 'f', -1, 64),
			strconv.FormatFloat(u.HeatRateMMBtu, 'f', -1, 64),
			strconv.Itoa(u.OperatingYear),
		}
	}
	return w.writeCSV("all_units_"+w.tag+".csv", header, rows)
}

// WriteLoadCurves writes load_curves_<tag>.csv with values truncated to
// integer MW. Truncation (not rounding) is deliberate: it matches the
// historical output byte-for-byte and keeps hourly files small.
func (w *Writer) WriteLoadCurves(lc *domain.LoadCurves) error {
	header := append([]string{"time_index"}, lc.Columns...)

	rows := make([][]string, len(lc.TimeIndex))
	for i, ti := range lc.TimeIndex {
		row := make([]string, 0, len(lc.Columns)+1)
		row = append(row, strconv.Itoa(ti))
		for _, v := range lc.Values[i] {
			row = append(row, strconv.FormatInt(int64(v), 10))
		}
		rows[i] = row
	}
	return w.writeCSV("load_curves_"+w.tag+".csv", header, rows)
}

// WriteTransmission writes transmission_constraints_<tag>.csv with
// one-decimal float formatting.
func (w *Writer) WriteTransmission(links []domain.TransmissionLink) error {
	header := []string{"region_from", "region_to", "firm_ttc_mw", "nonfirm_ttc_mw", "distance_mile"}

	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{
			l.RegionFrom,
			l.RegionTo,
			float1(l.FirmTTCMW),
			float1(l.NonfirmTTCMW),
			float1(l.DistanceMiles),
		}
	}
	return w.writeCSV("transmission_constraints_"+w.tag+".csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	if w.metrics != nil {
		w.metrics.FilesWritten.Inc()
	}
	if w.logger != nil {
		w.logger.Info("wrote output file", "file", name, "rows", len(rows))
	}
	return nil
}

func float3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func float1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
