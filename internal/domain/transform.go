package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// cadTimeLayout matches the CAD "cd" column, e.g. "2025-Sep-10 14:23".
const cadTimeLayout = "2006-Jan-02 15:04"

// LDPerAU converts astronomical units to lunar distances (1 au = 389.174 LD).
const LDPerAU = 389.174

// Photometric albedo assumptions for the H-to-diameter estimate. A brighter
// surface reflects more light per unit area, so for the same H the object is
// smaller: high albedo gives the minimum size, low albedo the maximum.
const (
	AlbedoBright  = 0.25
	AlbedoNominal = 0.14
	AlbedoDark    = 0.05
)

// phaMaxMOIDAU and phaMaxH are the official PHA thresholds:
// Earth MOID <= 0.05 au and H <= 22.0.
const (
	phaMaxMOIDAU = 0.05
	phaMaxH      = 22.0
)

// veryCloseMaxAU bounds the coarse very_close flag.
const veryCloseMaxAU = 0.05

// FieldIndex maps CAD column names to their position in each data row.
type FieldIndex map[string]int

// NewFieldIndex builds a FieldIndex from the CAD "fields" array. The columns
// needed to form a valid record (des, cd, dist) must be present; all others
// are optional.
func NewFieldIndex(fields []string) (FieldIndex, error) {
	idx := make(FieldIndex, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	for _, required := range []string{"des", "cd", "dist"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("field index: missing required column %q", required)
		}
	}
	return idx, nil
}

func (idx FieldIndex) cell(row []string, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseRow converts one CAD data row into an ApproachRecord, including all
// derived fields except MOID and PHA (those need SBDB enrichment, see
// [ApplyMOID]). It returns an error when the row lacks a designation, a
// parseable timestamp, or a parseable nominal distance.
func ParseRow(idx FieldIndex, row []string) (ApproachRecord, error) {
	des := idx.cell(row, "des")
	if des == "" {
		return ApproachRecord{}, fmt.Errorf("parse row: empty designation")
	}

	timeRaw := idx.cell(row, "cd")
	t, err := time.ParseInLocation(cadTimeLayout, timeRaw, time.UTC)
	if err != nil {
		return ApproachRecord{}, fmt.Errorf("parse row %s: bad close-approach time %q: %w", des, timeRaw, err)
	}

	distRaw := idx.cell(row, "dist")
	dist, err := strconv.ParseFloat(distRaw, 64)
	if err != nil {
		return ApproachRecord{}, fmt.Errorf("parse row %s: bad distance %q: %w", des, distRaw, err)
	}

	rec := ApproachRecord{
		Designation: des,
		Fullname:    strings.Join(strings.Fields(idx.cell(row, "fullname")), " "),
		TimeRaw:     timeRaw,
		Time:        t,
		DistAU:      dist,
		DistMinAU:   parseOptionalFloat(idx.cell(row, "dist_min")),
		DistMaxAU:   parseOptionalFloat(idx.cell(row, "dist_max")),
		VRelKmS:     parseOptionalFloat(idx.cell(row, "v_rel")),
		VInfKmS:     parseOptionalFloat(idx.cell(row, "v_inf")),
		H:           parseOptionalFloat(idx.cell(row, "h")),
	}

	return deriveFields(rec), nil
}

// parseOptionalFloat parses an optional numeric cell, returning nil for
// empty or malformed values.
func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// deriveFields fills in every field that is a pure function of the CAD
// columns: the lunar-distance value, the size estimate range, and the coarse
// very_close / large flags.
func deriveFields(rec ApproachRecord) ApproachRecord {
	rec.DistLD = roundTo(rec.DistAU*LDPerAU, 2)
	rec.VeryClose = rec.DistAU <= veryCloseMaxAU

	if rec.H != nil {
		rec.DiamKmMin = diameterKm(*rec.H, AlbedoBright)
		rec.DiamKmNom = diameterKm(*rec.H, AlbedoNominal)
		rec.DiamKmMax = diameterKm(*rec.H, AlbedoDark)
		rec.Large = *rec.H <= phaMaxH
	}

	return rec
}

// diameterKm estimates an object's diameter from absolute magnitude H and an
// assumed geometric albedo: D(km) = 1329/sqrt(p) * 10^(-H/5).
func diameterKm(h, albedo float64) *float64 {
	d := 1329.0 / math.Sqrt(albedo) * math.Pow(10, -h/5.0)
	return &d
}

// ApplyMOID records an object's Earth MOID and re-derives the PHA flag.
// Passing nil clears the MOID; a record with unknown MOID is never flagged.
func ApplyMOID(rec ApproachRecord, moidAU *float64) ApproachRecord {
	rec.MOIDAU = moidAU
	rec.PHA = moidAU != nil && *moidAU <= phaMaxMOIDAU &&
		rec.H != nil && *rec.H <= phaMaxH
	return rec
}

// InWatchlist reports whether a record belongs on the watchlist: closer than
// the threshold (in lunar distances) or flagged potentially hazardous.
func InWatchlist(rec ApproachRecord, maxDistLD float64) bool {
	return rec.DistLD < maxDistLD || rec.PHA
}

// Watchlist filters records into the watchlist subset without mutating any
// record. The relative order of the input is preserved.
func Watchlist(records []ApproachRecord, maxDistLD float64) []ApproachRecord {
	watch := make([]ApproachRecord, 0, len(records))
	for _, rec := range records {
		if InWatchlist(rec, maxDistLD) {
			watch = append(watch, rec)
		}
	}
	return watch
}

// SortRecords orders records by nominal distance ascending, then H ascending
// (records without H last), then relative velocity descending, then
// designation. The final key makes the order total, so identical inputs
// always yield identical output.
func SortRecords(records []ApproachRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DistAU != b.DistAU {
			return a.DistAU < b.DistAU
		}
		if c := compareOptional(a.H, b.H); c != 0 {
			return c < 0
		}
		if c := compareOptional(a.VRelKmS, b.VRelKmS); c != 0 {
			return c > 0
		}
		return a.Designation < b.Designation
	})
}

// compareOptional orders two optional floats, treating nil as greater than
// any value so unknowns sort last.
func compareOptional(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
