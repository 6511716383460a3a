// Command validate performs strict pre-flight checks on a settings file
// against a PUDL warehouse, without extracting anything. It is the hard
// counterpart of the extraction pipeline's soft region validation: every
// problem the pipeline would merely warn about fails here with a non-zero
// exit code.
//
// Usage:
//
//	go run ./cmd/validate -settings pudl_data_extraction.yml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gridwright/genx-input-etl/internal/config"
	"github.com/gridwright/genx-input-etl/internal/domain"
	"github.com/gridwright/genx-input-etl/internal/warehouse"
)

// requiredTables are the warehouse tables every extraction reads.
var requiredTables = []string{
	"regions_entity_epaipm",
	"generation_units_eia",
	"load_curves_epaipm",
	"transmission_single_epaipm",
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	settingsPath := flag.String("settings", "pudl_data_extraction.yml", "YAML settings file to validate")
	flag.Parse()

	if code := run(*settingsPath); code != 0 {
		os.Exit(code)
	}
}

func run(settingsPath string) int {
	fmt.Println("=== Settings Pre-flight Validation ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load settings: %v\n", err)
		return 1
	}

	store, err := warehouse.Open(cfg.WarehousePath, slog.Default(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open warehouse: %v\n", err)
		return 1
	}
	defer store.Close()

	ctx := context.Background()

	tablesPhase := validateTables(ctx, store)

	var referenceIDs []string
	if tablesPhase.passed() {
		referenceIDs, err = store.RegionIDs(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read reference regions: %v\n", err)
			return 1
		}
	}

	phases := []*phase{
		tablesPhase,
		validateRegions(settings, referenceIDs),
		validateAggregations(settings, referenceIDs),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: warehouse tables ──

func validateTables(ctx context.Context, store *warehouse.Store) *phase {
	p := &phase{name: "Phase 1: Warehouse Tables"}
	for _, table := range requiredTables {
		ok, err := store.HasTable(ctx, table)
		if err != nil {
			p.errorf("check %s: %v", table, err)
			continue
		}
		if !ok {
			p.errorf("missing required table %q", table)
		}
	}
	return p
}

// ── Phase 2: model regions ──

func validateRegions(settings *config.Settings, referenceIDs []string) *phase {
	p := &phase{name: "Phase 2: Model Regions"}

	unknown := domain.ValidateModelRegions(settings.ModelRegions, settings.RegionAggregations, referenceIDs)
	for _, region := range unknown {
		p.errorf("model region %q is neither a reference region nor a declared aggregation", region)
	}

	seen := map[string]bool{}
	for _, region := range settings.ModelRegions {
		if seen[region] {
			p.errorf("model region %q listed more than once", region)
		}
		seen[region] = true
	}
	return p
}

// ── Phase 3: aggregations ──

func validateAggregations(settings *config.Settings, referenceIDs []string) *phase {
	p := &phase{name: "Phase 3: Region Aggregations"}

	if _, err := domain.ReverseRegionMap(settings.RegionAggregations); err != nil {
		p.errorf("%v", err)
	}

	for _, name := range domain.AggregationShadows(settings.RegionAggregations, referenceIDs) {
		p.errorf("aggregation %q shadows a reference region of the same name", name)
	}

	refs := make(map[string]bool, len(referenceIDs))
	for _, id := range referenceIDs {
		refs[id] = true
	}
	for name, members := range settings.RegionAggregations {
		if len(members) == 0 {
			p.errorf("aggregation %q has no members", name)
		}
		var missing []string
		for _, member := range members {
			if !refs[member] {
				missing = append(missing, member)
			}
		}
		if len(missing) > 0 {
			p.errorf("aggregation %q has unknown members: %s", name, strings.Join(missing, ", "))
		}
	}
	return p
}
