package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildZoneMap(t *testing.T) {
	t.Run("sorted 1-based contiguous indices", func(t *testing.T) {
		zones := BuildZoneMap([]string{"b", "a", "c"})
		assert.Equal(t, ZoneMap{"a": "1", "b": "2", "c": "3"}, zones)
	})

	t.Run("input order is irrelevant", func(t *testing.T) {
		first := BuildZoneMap([]string{"c", "a", "b"})
		second := BuildZoneMap([]string{"a", "b", "c"})
		assert.Equal(t, first, second)
	})

	t.Run("idempotent", func(t *testing.T) {
		regions := []string{"b", "a", "c"}
		assert.Equal(t, BuildZoneMap(regions), BuildZoneMap(regions))
	})

	t.Run("does not reorder the input slice", func(t *testing.T) {
		regions := []string{"b", "a"}
		BuildZoneMap(regions)
		assert.Equal(t, []string{"b", "a"}, regions)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, BuildZoneMap(nil))
	})
}

func TestZoneMap_Regions(t *testing.T) {
	zones := BuildZoneMap([]string{"WECC_AZ", "CA_N", "CA_S"})
	assert.Equal(t, []string{"CA_N", "CA_S", "WECC_AZ"}, zones.Regions())
}

func TestValidateModelRegions(t *testing.T) {
	refs := []string{"ERC_PHDL", "ERC_REST", "NENG_CT"}

	t.Run("all valid", func(t *testing.T) {
		unknown := ValidateModelRegions(
			[]string{"ERC_PHDL", "TEXAS"},
			map[string][]string{"TEXAS": {"ERC_REST"}},
			refs,
		)
		assert.Empty(t, unknown)
	})

	t.Run("unknown region reported", func(t *testing.T) {
		unknown := ValidateModelRegions(
			[]string{"ERC_PHDL", "NOT_A_REGION", "ALSO_BAD"},
			map[string][]string{},
			refs,
		)
		assert.Equal(t, []string{"ALSO_BAD", "NOT_A_REGION"}, unknown)
	})

	t.Run("aggregate name counts as valid", func(t *testing.T) {
		unknown := ValidateModelRegions(
			[]string{"NEW_ENGLAND"},
			map[string][]string{"NEW_ENGLAND": {"NENG_CT"}},
			refs,
		)
		assert.Empty(t, unknown)
	})
}

func TestAggregationShadows(t *testing.T) {
	refs := []string{"ERC_PHDL", "ERC_REST"}

	t.Run("no shadowing", func(t *testing.T) {
		shadows := AggregationShadows(map[string][]string{"TEXAS": {"ERC_PHDL"}}, refs)
		assert.Empty(t, shadows)
	})

	t.Run("aggregate reusing a reference name", func(t *testing.T) {
		shadows := AggregationShadows(map[string][]string{"ERC_REST": {"ERC_PHDL"}}, refs)
		assert.Equal(t, []string{"ERC_REST"}, shadows)
	})
}

func TestReverseRegionMap(t *testing.T) {
	t.Run("inverts one-to-many mapping", func(t *testing.T) {
		reversed, err := ReverseRegionMap(map[string][]string{"X": {"p", "q"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"p": "X", "q": "X"}, reversed)
	})

	t.Run("multiple aggregates", func(t *testing.T) {
		reversed, err := ReverseRegionMap(map[string][]string{
			"TEXAS": {"ERC_PHDL", "ERC_REST"},
			"NE":    {"NENG_CT"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"ERC_PHDL": "TEXAS",
			"ERC_REST": "TEXAS",
			"NENG_CT":  "NE",
		}, reversed)
	})

	t.Run("duplicate membership is an error", func(t *testing.T) {
		_, err := ReverseRegionMap(map[string][]string{
			"A": {"shared"},
			"B": {"shared"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"shared"`)
		assert.Contains(t, err.Error(), `"A"`)
		assert.Contains(t, err.Error(), `"B"`)
	})

	t.Run("empty mapping", func(t *testing.T) {
		reversed, err := ReverseRegionMap(nil)
		require.NoError(t, err)
		assert.Empty(t, reversed)
	})
}

func TestMapAggRegionNames(t *testing.T) {
	aggMap := map[string]string{"p": "X", "q": "X"}

	t.Run("members replaced, others pass through", func(t *testing.T) {
		mapped := MapAggRegionNames([]string{"p", "z"}, aggMap)
		assert.Equal(t, []string{"X", "z"}, mapped)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, MapAggRegionNames(nil, aggMap))
	})
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Natural Gas Fired Combined Cycle": "natural_gas_fired_combined_cycle",
		"Petroleum Liquids":                "petroleum_liquids",
		"Solar Photovoltaic":               "solar_photovoltaic",
		"Conventional Hydroelectric":       "conventional_hydroelectric",
		"Landfill Gas (LFG)":               "landfill_gas_lfg",
		"Wood/Wood Waste Biomass":          "wood_wood_waste_biomass",
		"  padded  ":                       "padded",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeCase(in), "input %q", in)
	}
}
