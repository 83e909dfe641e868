// Package domain models near-Earth object close-approach data.
//
// # Data Sources
//
// Close-approach events come from the JPL Solar System Dynamics (SSD)
// Close-Approach Data API at https://ssd-api.jpl.nasa.gov/cad.api. The API
// returns a column-oriented table: a "fields" array naming the columns and a
// "data" array of rows, where every cell is a string or null. The job queries
// a bounded date window for approaches to Earth within 0.2 au.
//
// Earth MOID values come from the JPL Small-Body Database (SBDB) API at
// https://ssd-api.jpl.nasa.gov/sbdb.api, looked up per designation.
//
// # CAD Conventions
//
// Timestamps:
//
//	The "cd" column is a calendar date/time in TDB, formatted
//	"2025-Sep-10 14:23". Parsed here as UTC; the sub-minute difference
//	between TDB and UTC is irrelevant at this precision.
//
// Distances:
//
//	The "dist" column (and dist_min/dist_max) is the nominal close-approach
//	distance in astronomical units. For human-scaled output it is converted
//	to lunar distances: 1 au = 389.174 LD. The derived dist_ld value is
//	rounded to two decimals.
//
// Absolute magnitude:
//
//	The "h" column may be empty when no magnitude is published. When present
//	it feeds the photometric size estimate
//
//	  D(km) = 1329 / sqrt(albedo) * 10^(-H/5)
//
//	evaluated at albedo 0.25 (bright, minimum size), 0.14 (nominal), and
//	0.05 (dark, maximum size). For a fixed albedo the estimate is
//	monotonically non-increasing in H.
//
// # Hazard Classification
//
// The official potentially-hazardous-asteroid (PHA) criterion is
// Earth MOID <= 0.05 au AND H <= 22.0. MOID is not part of the CAD response,
// so the flag can only be derived after SBDB enrichment; records without a
// known MOID are never flagged.
//
// Two coarser flags are derived from CAD data alone: very_close
// (dist <= 0.05 au) and large (H <= 22.0).
//
// # Watchlist
//
// The watchlist is the subset of records with dist_ld strictly below the
// configured threshold OR the PHA flag set. It is a pure filter: records are
// never mutated by selection.
package domain
