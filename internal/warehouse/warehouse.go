// Package warehouse is the read-only adapter for the PUDL sqlite database.
// All queries take a context and fail fast: there are no retries because
// the warehouse is a local file, not a network service.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridwright/genx-input-etl/internal/domain"
	"github.com/gridwright/genx-input-etl/internal/observability"
)

// Store wraps the warehouse connection. It is safe to share across
// builders: every method is a read and nothing mutates warehouse state.
type Store struct {
	db      *sql.DB
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Open opens the sqlite database at path read-only and verifies the
// connection.
func Open(path string, logger *slog.Logger, metrics *observability.Metrics) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open warehouse %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to warehouse %s: %w", path, err)
	}
	return &Store{db: db, logger: logger, metrics: metrics}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// HasTable reports whether the warehouse contains the named table. Used by
// the pre-flight validator.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// RegionIDs returns the canonical reference-region identifiers, sorted.
func (s *Store) RegionIDs(ctx context.Context) ([]string, error) {
	defer s.observe("regions_entity_epaipm")()

	rows, err := s.db.QueryContext(ctx,
		`SELECT region_id_epaipm FROM regions_entity_epaipm ORDER BY region_id_epaipm`)
	if err != nil {
		return nil, fmt.Errorf("query reference regions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reference region: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read reference regions: %w", err)
	}

	s.count("regions_entity_epaipm", len(ids))
	return ids, nil
}

// GeneratingUnits returns every generating-unit row in the warehouse.
// Region filtering happens in the clusterer after aggregation mapping.
func (s *Store) GeneratingUnits(ctx context.Context) ([]domain.UnitRecord, error) {
	defer s.observe("generation_units_eia")()

	rows, err := s.db.QueryContext(ctx, `
		SELECT plant_id_eia, generator_id, region_id_epaipm, technology_description,
		       capacity_mw, heat_rate_mmbtu_mwh, operating_year
		FROM generation_units_eia
		ORDER BY plant_id_eia, generator_id`)
	if err != nil {
		return nil, fmt.Errorf("query generating units: %w", err)
	}
	defer rows.Close()

	var units []domain.UnitRecord
	for rows.Next() {
		var u domain.UnitRecord
		if err := rows.Scan(&u.PlantID, &u.GeneratorID, &u.Region, &u.Technology,
			&u.CapacityMW, &u.HeatRateMMBtu, &u.OperatingYear); err != nil {
			return nil, fmt.Errorf("scan generating unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read generating units: %w", err)
	}

	s.count("generation_units_eia", len(units))
	return units, nil
}

// LoadCurveRows returns hourly load observations restricted to the given
// reference regions, ordered by time index then region.
func (s *Store) LoadCurveRows(ctx context.Context, regions []string) ([]domain.LoadRow, error) {
	defer s.observe("load_curves_epaipm")()

	if len(regions) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT region_id_epaipm, time_index, load_mw
		FROM load_curves_epaipm
		WHERE region_id_epaipm IN (%s)
		ORDER BY time_index, region_id_epaipm`, placeholders(len(regions)))

	rows, err := s.db.QueryContext(ctx, query, stringArgs(regions)...)
	if err != nil {
		return nil, fmt.Errorf("query load curves: %w", err)
	}
	defer rows.Close()

	var loads []domain.LoadRow
	for rows.Next() {
		var r domain.LoadRow
		if err := rows.Scan(&r.Region, &r.TimeIndex, &r.LoadMW); err != nil {
			return nil, fmt.Errorf("scan load curve row: %w", err)
		}
		loads = append(loads, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read load curves: %w", err)
	}

	s.count("load_curves_epaipm", len(loads))
	return loads, nil
}

// TransmissionRecords returns every directed transfer-capacity constraint.
func (s *Store) TransmissionRecords(ctx context.Context) ([]domain.TransmissionRecord, error) {
	defer s.observe("transmission_single_epaipm")()

	rows, err := s.db.QueryContext(ctx, `
		SELECT region_from, region_to, firm_ttc_mw, nonfirm_ttc_mw
		FROM transmission_single_epaipm
		ORDER BY region_from, region_to`)
	if err != nil {
		return nil, fmt.Errorf("query transmission constraints: %w", err)
	}
	defer rows.Close()

	var recs []domain.TransmissionRecord
	for rows.Next() {
		var r domain.TransmissionRecord
		if err := rows.Scan(&r.RegionFrom, &r.RegionTo, &r.FirmTTCMW, &r.NonfirmTTCMW); err != nil {
			return nil, fmt.Errorf("scan transmission constraint: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transmission constraints: %w", err)
	}

	s.count("transmission_single_epaipm", len(recs))
	return recs, nil
}

// observe starts a query timer for the named table; the returned func
// records the duration.
func (s *Store) observe(table string) func() {
	if s.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		s.metrics.QueryDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
	}
}

func (s *Store) count(table string, n int) {
	if s.metrics != nil {
		s.metrics.RowsExtracted.WithLabelValues(table).Add(float64(n))
	}
	if s.logger != nil {
		s.logger.Debug("extracted rows", "table", table, "rows", n)
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(vals []string) []interface{} {
	args := make([]interface{}, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return args
}
