// Package domain models the region, zone, and table structures used to turn
// PUDL warehouse records into capacity-expansion model inputs.
//
// # Data Source
//
// Records come from a local PUDL (Public Utility Data Liberation) sqlite
// warehouse. The warehouse carries EPA IPM (Integrated Planning Model)
// balancing-area regions as its canonical geography: the
// regions_entity_epaipm table lists every reference region identifier
// (e.g. "ERC_PHDL", "NENG_CT"). Load curves and transmission constraints
// are keyed by these same identifiers.
//
// # Regions and Aggregations
//
// A model run names its regions in the settings file. Each model region is
// either a reference region used as-is, or an aggregate region: a
// user-chosen name covering a list of reference regions. Aggregations are
// reversed into a member → aggregate map so that raw records can be
// relabeled row-by-row. A reference region may belong to at most one
// aggregate; duplicate membership is a configuration error because the
// reversed map could silently keep only the last-seen aggregate.
//
// # Zone Numbering
//
// Model regions are sorted lexicographically and numbered "1"…"n". The
// numbering must be stable across runs for the same settings: downstream
// model files hard-code column names like Load_MW_z3, so the zone index is
// derived only from the sorted region names, never from map iteration or
// input order.
//
// # Precision Contracts
//
// Output tables carry differing, deliberate precision:
//
//	generator clusters      — three-decimal floats
//	transmission distances  — one-decimal floats
//	load curves             — integer MW, truncated (not rounded)
//
// Truncation of load values loses sub-MW resolution by design, keeping
// hourly files small. These contracts match what the downstream model
// expects and are enforced by the output writer, not by the builders.
package domain
