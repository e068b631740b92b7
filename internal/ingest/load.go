package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// windowLabelPattern matches the load file's window columns, e.g.
// "6:00-7:00" (fixed hour) or "6:20-7:20" (sliding 20-minute step).
var windowLabelPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})$`)

// loadSchema is the resolved column layout of a LOAD file.
type loadSchema struct {
	dateCol    int
	idCol      int
	windowCols map[int]string // column index -> canonical window label
	kind       WindowKind
}

func resolveLoadSchema(header []string) (*loadSchema, error) {
	s := &loadSchema{dateCol: 0, idCol: -1, windowCols: make(map[int]string)}

	allOnTheHour := true
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, "ID"):
			s.idCol = i
		case strings.EqualFold(name, "Date"):
			s.dateCol = i
		default:
			m := windowLabelPattern.FindStringSubmatch(name)
			if m == nil {
				continue
			}
			sh, _ := strconv.Atoi(m[1])
			sm, _ := strconv.Atoi(m[2])
			eh, _ := strconv.Atoi(m[3])
			em, _ := strconv.Atoi(m[4])
			// Exports head the day's last buckets with a 24-hour end
			// time ("23:00-24:00", "23:40-24:40"); window labels wrap
			// at midnight, so normalize both hours modulo 24.
			sh %= 24
			eh %= 24
			s.windowCols[i] = fmt.Sprintf("%d:%02d-%d:%02d", sh, sm, eh, em)
			if sm != 0 || em != 0 {
				allOnTheHour = false
			}
		}
	}

	if s.idCol < 0 {
		if len(header) < 2 {
			return nil, fmt.Errorf("no ID column and fewer than 2 columns")
		}
		s.idCol = 1
	}
	if len(s.windowCols) == 0 {
		return nil, fmt.Errorf("no window columns matching H:MM-H:MM found")
	}

	if allOnTheHour {
		s.kind = Hourly
	} else {
		s.kind = Sliding20
	}
	return s, nil
}

// ParseLoad reads a LOAD file into a validated table. Unparsable load cells
// are treated as absent, excluding that window from load-correlated output.
func ParseLoad(r io.Reader) (*LoadTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading LOAD header: %w", err)
	}

	schema, err := resolveLoadSchema(header)
	if err != nil {
		return nil, fmt.Errorf("invalid LOAD schema: %w", err)
	}

	table := &LoadTable{Kind: schema.kind, Days: make(map[string]DayLoad)}
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading LOAD row %d: %w", rowNum+1, err)
		}
		rowNum++

		sector := cell(row, schema.idCol)
		if table.Sector == "" {
			table.Sector = sector
		} else if sector != "" && sector != table.Sector {
			table.Warnings = append(table.Warnings,
				fmt.Sprintf("LOAD row %d: sector %q differs from %q", rowNum, sector, table.Sector))
		}

		date := cell(row, schema.dateCol)
		if date == "" {
			continue
		}

		day := make(DayLoad, len(schema.windowCols))
		for col, label := range schema.windowCols {
			v, err := strconv.ParseFloat(cell(row, col), 64)
			if err != nil {
				continue // absent, not zero
			}
			day[label] = v
		}
		table.Days[date] = day
	}

	if len(table.Days) == 0 {
		return nil, fmt.Errorf("LOAD file has no data rows")
	}
	return table, nil
}
