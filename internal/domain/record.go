package domain

import "time"

// RawTable is the column-oriented payload returned by the CAD API: a list of
// column names and rows of string cells. Null cells arrive as empty strings.
type RawTable struct {
	Fields []string
	Rows   [][]string
}

// Window is the close-approach query window, [Start, End] in whole days.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns a window from today (UTC, midnight) to today+days.
func NewWindow(days int) Window {
	today := clock.Now().UTC().Truncate(24 * time.Hour)
	return Window{
		Start: today,
		End:   today.AddDate(0, 0, days),
	}
}

// ApproachRecord is one close approach after parsing and derivation. The csv
// tags define the column set and order of both output files; fields tagged
// "-" are internal.
type ApproachRecord struct {
	Designation string `csv:"designation" json:"designation"`
	Fullname    string `csv:"fullname" json:"fullname,omitempty"`

	// TimeRaw is the CAD "cd" string, kept verbatim for output so that the
	// CSV round-trips the feed exactly. Time is its parsed form.
	TimeRaw string    `csv:"close_approach_time_tdb" json:"close_approach_time_tdb"`
	Time    time.Time `csv:"-" json:"-"`

	DistAU    float64  `csv:"dist_au" json:"dist_au"`
	DistMinAU *float64 `csv:"dist_min_au" json:"dist_min_au,omitempty"`
	DistMaxAU *float64 `csv:"dist_max_au" json:"dist_max_au,omitempty"`
	DistLD    float64  `csv:"dist_ld" json:"dist_ld"`

	VRelKmS *float64 `csv:"v_rel_km_s" json:"v_rel_km_s,omitempty"`
	VInfKmS *float64 `csv:"v_inf_km_s" json:"v_inf_km_s,omitempty"`

	H *float64 `csv:"h_abs_mag" json:"h_abs_mag,omitempty"`

	DiamKmMin *float64 `csv:"diam_km_min" json:"diam_km_min,omitempty"`
	DiamKmNom *float64 `csv:"diam_km_nom" json:"diam_km_nom,omitempty"`
	DiamKmMax *float64 `csv:"diam_km_max" json:"diam_km_max,omitempty"`

	MOIDAU *float64 `csv:"moid_au" json:"moid_au,omitempty"`

	VeryClose bool `csv:"very_close" json:"very_close"`
	Large     bool `csv:"large" json:"large"`
	PHA       bool `csv:"pha" json:"pha"`
}
