// Package ingest reads the two ';'-delimited input files (per-minute
// occupancy and hourly load) into typed, position-independent tables.
// Column layout is validated once, up front; downstream code never touches
// raw headers again.
package ingest

import "time"

// MinutesPerDay is the required number of per-minute occupancy columns.
const MinutesPerDay = 1440

// DaySeries holds one calendar day of per-minute occupancy for a sector.
type DaySeries struct {
	// Label is the date cell exactly as written in the file. It is the
	// join key against LOAD rows, which carry the same spelling.
	Label string
	// Date is the parsed dd/mm/yyyy value, zero when the cell does not
	// parse as a date.
	Date    time.Time
	Minutes [MinutesPerDay]float64
}

// OccTable is the validated view of an OCC file.
type OccTable struct {
	Sector   string
	Days     []DaySeries
	Warnings []string
}

// WindowKind classifies the load file's column labels.
type WindowKind int

const (
	// Hourly means fixed "H:00-H+1:00" buckets.
	Hourly WindowKind = iota
	// Sliding20 means one-hour buckets advancing every 20 minutes.
	Sliding20
)

func (k WindowKind) String() string {
	if k == Sliding20 {
		return "sliding-20"
	}
	return "hourly"
}

// DayLoad maps a window label to its hourly load (aircraft/hour).
// Unparsable cells are simply absent.
type DayLoad map[string]float64

// LoadTable is the validated view of a LOAD file.
type LoadTable struct {
	Sector   string
	Kind     WindowKind
	Days     map[string]DayLoad // keyed by the date cell as written
	Warnings []string
}
