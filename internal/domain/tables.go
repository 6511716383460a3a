package domain

// UnitRecord is a raw generating-unit row as stored in the warehouse,
// keyed by the reference region it sits in.
type UnitRecord struct {
	PlantID       int
	GeneratorID   string
	Region        string // reference region identifier
	Technology    string // free-text EIA technology description
	CapacityMW    float64
	HeatRateMMBtu float64 // mmBTU per MWh
	OperatingYear int
}

// UnitRow is one physical generating unit in the audit output, after
// region aggregation and technology normalization.
type UnitRow struct {
	PlantID       int
	GeneratorID   string
	Region        string // reference region
	ModelRegion   string // after aggregation mapping
	Technology    string // snake_case
	CapacityMW    float64
	HeatRateMMBtu float64
	OperatingYear int
}

// ClusterRow is one (region, technology) generator cluster with aggregated
// attributes. Zone is assigned from the ZoneMap after clustering.
type ClusterRow struct {
	Region            string
	Technology        string
	Zone              string
	CapacityMW        float64 // sum over units
	WeightedHeatRate  float64 // capacity-weighted mmBTU/MWh
	MinUnitMW         float64
	MaxUnitMW         float64
	NumUnits          int
	MeanOperatingYear float64
}

// LoadRow is a raw hourly load observation keyed by reference region.
type LoadRow struct {
	Region    string
	TimeIndex int
	LoadMW    float64
}

// LoadCurves is the wide load table: one row per time index, one column
// per zone. Columns are named Load_MW_z<index> and ordered by zone index.
// Values stay float64 until the writer truncates them to integer MW.
type LoadCurves struct {
	TimeIndex []int
	Columns   []string
	Values    [][]float64 // Values[i][j] is row TimeIndex[i], column Columns[j]
}

// TransmissionRecord is a raw directed transfer-capacity constraint
// between two reference regions.
type TransmissionRecord struct {
	RegionFrom   string
	RegionTo     string
	FirmTTCMW    float64
	NonfirmTTCMW float64
}

// TransmissionLink is an aggregated constraint between two model regions,
// with the great-circle line distance between the region centroids.
type TransmissionLink struct {
	RegionFrom    string
	RegionTo      string
	FirmTTCMW     float64
	NonfirmTTCMW  float64
	DistanceMiles float64
}
