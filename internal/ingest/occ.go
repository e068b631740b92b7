package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	dateLayout = "02/01/2006"
	// minuteColumnMarker identifies the 1440 per-minute occupancy columns
	// in the OCC export's header.
	minuteColumnMarker = "Duration 11 Min"
)

// occSchema is the resolved column layout of an OCC file.
type occSchema struct {
	dateCol    int
	idCol      int
	minuteCols []int // exactly MinutesPerDay entries, in minute order
}

func resolveOccSchema(header []string) (*occSchema, error) {
	s := &occSchema{dateCol: 0, idCol: -1}

	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, "ID"):
			s.idCol = i
		case strings.EqualFold(name, "Date"):
			s.dateCol = i
		case strings.Contains(name, minuteColumnMarker):
			s.minuteCols = append(s.minuteCols, i)
		}
	}

	// The export puts the sector code in the second column when it is not
	// labelled "ID".
	if s.idCol < 0 {
		if len(header) < 2 {
			return nil, fmt.Errorf("no ID column and fewer than 2 columns")
		}
		s.idCol = 1
	}

	if len(s.minuteCols) != MinutesPerDay {
		return nil, fmt.Errorf("expected %d %q columns, found %d",
			MinutesPerDay, minuteColumnMarker, len(s.minuteCols))
	}
	return s, nil
}

// ParseOcc reads an OCC file into a validated table. Unparsable occupancy
// cells coerce to 0; structural problems (missing header, wrong minute
// column count) are fatal.
func ParseOcc(r io.Reader) (*OccTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading OCC header: %w", err)
	}

	schema, err := resolveOccSchema(header)
	if err != nil {
		return nil, fmt.Errorf("invalid OCC schema: %w", err)
	}

	table := &OccTable{}
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading OCC row %d: %w", rowNum+1, err)
		}
		rowNum++

		day := DaySeries{Label: cell(row, schema.dateCol)}
		if d, err := time.Parse(dateLayout, day.Label); err == nil {
			day.Date = d
		}

		sector := cell(row, schema.idCol)
		if table.Sector == "" {
			table.Sector = sector
		} else if sector != "" && sector != table.Sector {
			w := fmt.Sprintf("OCC row %d: sector %q differs from %q", rowNum, sector, table.Sector)
			table.Warnings = append(table.Warnings, w)
			log.Warn().Msg(w)
		}

		for i, col := range schema.minuteCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, col)), 64)
			if err != nil {
				v = 0
			}
			day.Minutes[i] = v
		}
		table.Days = append(table.Days, day)
	}

	if len(table.Days) == 0 {
		return nil, fmt.Errorf("OCC file has no data rows")
	}
	return table, nil
}

// cell returns the trimmed field at idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
