// Command genmock builds a small mock PUDL warehouse and a matching
// region boundary shapefile for local runs and integration testing. The
// mock geography is a handful of EPA IPM-style regions laid out on a
// simple grid, with generating units, one week of hourly load, and a few
// transmission constraints between them.
//
// Usage:
//
//	go run ./cmd/genmock -db pudl.sqlite -shapefile data/ipm_regions.shp
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gridwright/genx-input-etl/internal/geo"
)

const mockSchema = `
CREATE TABLE regions_entity_epaipm (region_id_epaipm TEXT PRIMARY KEY);
CREATE TABLE generation_units_eia (
	plant_id_eia INTEGER,
	generator_id TEXT,
	region_id_epaipm TEXT,
	technology_description TEXT,
	capacity_mw REAL,
	heat_rate_mmbtu_mwh REAL,
	operating_year INTEGER
);
CREATE TABLE load_curves_epaipm (
	region_id_epaipm TEXT,
	time_index INTEGER,
	load_mw REAL
);
CREATE TABLE transmission_single_epaipm (
	region_from TEXT,
	region_to TEXT,
	firm_ttc_mw REAL,
	nonfirm_ttc_mw REAL
);
`

// mockRegion places a reference region on a lon/lat grid with a base load
// level used to synthesize its hourly curve.
type mockRegion struct {
	id         string
	lon, lat   float64 // lower-left corner of a 2°×2° square
	baseLoadMW float64
}

var mockRegions = []mockRegion{
	{id: "ERC_PHDL", lon: -102, lat: 34, baseLoadMW: 600},
	{id: "ERC_REST", lon: -100, lat: 30, baseLoadMW: 4200},
	{id: "ERC_WEST", lon: -104, lat: 30, baseLoadMW: 900},
	{id: "NENG_CT", lon: -73, lat: 41, baseLoadMW: 3100},
	{id: "NENG_ME", lon: -70, lat: 44, baseLoadMW: 1300},
}

type mockUnit struct {
	plantID     int
	generatorID string
	region      string
	technology  string
	capacityMW  float64
	heatRate    float64
	year        int
}

var mockUnits = []mockUnit{
	{1, "ST1", "ERC_PHDL", "Conventional Steam Coal", 650, 10.1, 1979},
	{1, "ST2", "ERC_PHDL", "Conventional Steam Coal", 650, 10.3, 1981},
	{2, "GT1", "ERC_REST", "Natural Gas Fired Combustion Turbine", 45.5, 11.2, 1998},
	{2, "CC1", "ERC_REST", "Natural Gas Fired Combined Cycle", 510, 7.2, 2009},
	{3, "CC1", "ERC_REST", "Natural Gas Fired Combined Cycle", 480, 7.5, 2004},
	{4, "W1", "ERC_WEST", "Onshore Wind Turbine", 180, 0, 2014},
	{5, "PV1", "ERC_WEST", "Solar Photovoltaic", 120, 0, 2017},
	{6, "ST1", "NENG_CT", "Natural Gas Steam Turbine", 380, 10.8, 1973},
	{6, "CC2", "NENG_CT", "Natural Gas Fired Combined Cycle", 620, 7.0, 2011},
	{7, "NUC1", "NENG_CT", "Nuclear", 1150, 10.4, 1986},
	{8, "HY1", "NENG_ME", "Conventional Hydroelectric", 85, 0, 1955},
	{8, "W2", "NENG_ME", "Onshore Wind Turbine", 140, 0, 2016},
}

type mockLink struct {
	from, to      string
	firm, nonfirm float64
}

var mockLinks = []mockLink{
	{"ERC_PHDL", "ERC_REST", 550, 600},
	{"ERC_REST", "ERC_PHDL", 550, 600},
	{"ERC_WEST", "ERC_REST", 750, 800},
	{"ERC_REST", "ERC_WEST", 750, 800},
	{"NENG_CT", "NENG_ME", 300, 330},
	{"NENG_ME", "NENG_CT", 300, 330},
	{"ERC_REST", "NENG_CT", 120, 150},
	{"NENG_CT", "ERC_REST", 120, 150},
}

// hoursOfLoad is one week of hourly observations per region.
const hoursOfLoad = 168

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "pudl.sqlite", "output path for the mock sqlite warehouse")
	shpPath := flag.String("shapefile", "data/ipm_regions.shp", "output path for the mock region shapefile")
	flag.Parse()

	if err := writeWarehouse(*dbPath); err != nil {
		return fmt.Errorf("writing mock warehouse: %w", err)
	}
	log.Printf("wrote mock warehouse: %s", *dbPath)

	if err := writeShapefile(*shpPath); err != nil {
		return fmt.Errorf("writing mock shapefile: %w", err)
	}
	log.Printf("wrote mock shapefile: %s", *shpPath)
	return nil
}

func writeWarehouse(path string) error {
	// Start fresh so reruns are deterministic.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(mockSchema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range mockRegions {
		if _, err := tx.Exec(`INSERT INTO regions_entity_epaipm VALUES (?)`, r.id); err != nil {
			return err
		}
	}

	for _, u := range mockUnits {
		if _, err := tx.Exec(`INSERT INTO generation_units_eia VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.plantID, u.generatorID, u.region, u.technology, u.capacityMW, u.heatRate, u.year); err != nil {
			return err
		}
	}

	for _, r := range mockRegions {
		for ti := 1; ti <= hoursOfLoad; ti++ {
			if _, err := tx.Exec(`INSERT INTO load_curves_epaipm VALUES (?, ?, ?)`,
				r.id, ti, hourlyLoad(r.baseLoadMW, ti)); err != nil {
				return err
			}
		}
	}

	for _, l := range mockLinks {
		if _, err := tx.Exec(`INSERT INTO transmission_single_epaipm VALUES (?, ?, ?, ?)`,
			l.from, l.to, l.firm, l.nonfirm); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// hourlyLoad synthesizes a daily sinusoid around the base load: a ±20%
// swing peaking in the late afternoon.
func hourlyLoad(baseMW float64, timeIndex int) float64 {
	hour := float64((timeIndex - 1) % 24)
	swing := 0.2 * math.Sin((hour-6)/24*2*math.Pi)
	return baseMW * (1 + swing)
}

func writeShapefile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	enc, err := shp.NewEncoderFromFields(path, goshp.POLYGON,
		goshp.StringField(geo.RegionAttr, 25))
	if err != nil {
		return err
	}
	defer enc.Close()

	for _, r := range mockRegions {
		poly := geom.Polygon{{
			{X: r.lon, Y: r.lat},
			{X: r.lon + 2, Y: r.lat},
			{X: r.lon + 2, Y: r.lat + 2},
			{X: r.lon, Y: r.lat + 2},
		}}
		if err := enc.EncodeFields(poly, r.id); err != nil {
			return err
		}
	}
	return nil
}
