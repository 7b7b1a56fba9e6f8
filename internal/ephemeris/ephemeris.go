// Package ephemeris reads raw planetary ephemeris vector tables into sample
// streams for orbit preprocessing. It understands the JPL Horizons "Vector"
// text layout and a plain whitespace-delimited fallback format.
package ephemeris

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed table row. Row is 1-based and counts data
// rows, not physical file lines, so it matches what an operator sees when
// paging through the sample section.
type ParseError struct {
	Row    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ephemeris row %d: %s", e.Row, e.Reason)
}

// RawSample is a single parsed table row: a heliocentric position at a
// Julian date. Distance is the RG field when the source provides one,
// otherwise the vector norm. Consumed immediately by the orbit builder.
type RawSample struct {
	JD       float64 // Julian date of the sample
	Distance float64 // distance from the sun, AU
	X, Y, Z  float64 // cartesian position, AU
}

// Table is one planet's parsed vector table.
type Table struct {
	Name        string // target name from the Horizons header, if any
	StepMinutes int    // nominal cadence from the header, 0 if unknown
	Samples     []RawSample
}

// sectionMarker prefixes the $$SOE and $$EOE lines delimiting the sample
// section of a Horizons vector file. Matching on the prefix tolerates the
// marker variants seen in the wild.
const sectionMarker = "$$"

// ReadFile reads one planet's vector table from disk.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ephemeris table: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a vector table. A leading line of asterisks marks the Horizons
// format; anything else is treated as plain "jd x y z [rg]" rows.
func Read(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && first == "" {
		return nil, &ParseError{Row: 1, Reason: "empty table"}
	}
	if strings.HasPrefix(first, "*") {
		return readHorizons(bufio.NewScanner(br))
	}
	return readPlain(first, bufio.NewScanner(br))
}

// readHorizons parses the header then the 4-line sample records between the
// $$SOE and $$EOE markers.
func readHorizons(scanner *bufio.Scanner) (*Table, error) {
	t := &Table{}

	// Header: target name on the "Revised:" line, cadence on "Step-size".
	inHeader := true
	for inHeader {
		if !scanner.Scan() {
			return nil, &ParseError{Row: 1, Reason: "truncated header, no $$SOE marker"}
		}
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Revised:"):
			fields := strings.Fields(line)
			if len(fields) >= 5 {
				t.Name = fields[4]
			}
		case strings.HasPrefix(line, "Step-size"):
			fields := strings.Fields(line)
			if len(fields) >= 3 {
				step, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, &ParseError{Row: 1, Reason: fmt.Sprintf("non-numeric step size %q", fields[2])}
				}
				t.StepMinutes = step
			}
		case strings.HasPrefix(line, sectionMarker):
			inHeader = false
		}
	}
	if t.Name == "" {
		return nil, &ParseError{Row: 1, Reason: "header has no Revised: line naming the target"}
	}

	row := 0
	for {
		if !scanner.Scan() {
			return nil, &ParseError{Row: row + 1, Reason: "unterminated sample section, no $$EOE marker"}
		}
		dateLine := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(dateLine), sectionMarker) {
			break
		}
		row++

		s, err := readRecord(scanner, dateLine, row)
		if err != nil {
			return nil, err
		}
		if err := checkOrder(t.Samples, s, row); err != nil {
			return nil, err
		}
		t.Samples = append(t.Samples, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ephemeris table: %w", err)
	}
	if len(t.Samples) == 0 {
		return nil, &ParseError{Row: 1, Reason: "table has no samples"}
	}
	return t, nil
}

// readRecord parses one 4-line Horizons record: date, position, velocity
// (ignored), and range.
func readRecord(scanner *bufio.Scanner, dateLine string, row int) (RawSample, error) {
	var s RawSample

	dateFields := strings.Fields(dateLine)
	if len(dateFields) == 0 {
		return s, &ParseError{Row: row, Reason: "blank date line"}
	}
	jd, err := strconv.ParseFloat(dateFields[0], 64)
	if err != nil {
		return s, &ParseError{Row: row, Reason: fmt.Sprintf("non-numeric Julian date %q", dateFields[0])}
	}
	s.JD = jd

	if !scanner.Scan() {
		return s, &ParseError{Row: row, Reason: "truncated record, missing position line"}
	}
	s.X, s.Y, s.Z, err = parseXYZ(scanner.Text())
	if err != nil {
		return s, &ParseError{Row: row, Reason: err.Error()}
	}

	// velocity line, unused
	if !scanner.Scan() {
		return s, &ParseError{Row: row, Reason: "truncated record, missing velocity line"}
	}

	if !scanner.Scan() {
		return s, &ParseError{Row: row, Reason: "truncated record, missing range line"}
	}
	rg, ok := parseRange(scanner.Text())
	if ok {
		s.Distance = rg
	} else {
		s.Distance = math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	}
	return s, nil
}

// parseXYZ parses a Horizons coordinate line. Values can be glued to their
// '=' sign (" Z =-2.07E-03"), so the line is split on '=' and the first
// token after each sign is the value.
func parseXYZ(line string) (x, y, z float64, err error) {
	parts := strings.Split(line, "=")
	if len(parts) != 4 {
		return 0, 0, 0, fmt.Errorf("position line has %d fields, want X, Y and Z", len(parts)-1)
	}
	vals := make([]float64, 3)
	for i := 1; i < 4; i++ {
		fields := strings.Fields(parts[i])
		if len(fields) == 0 {
			return 0, 0, 0, fmt.Errorf("position line missing value %d", i)
		}
		v, perr := strconv.ParseFloat(fields[0], 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("non-numeric coordinate %q", fields[0])
		}
		vals[i-1] = v
	}
	return vals[0], vals[1], vals[2], nil
}

// parseRange extracts the RG (sun distance) value from the record's fourth
// line: " LT= ... RG= ... RR= ...". Not every table carries one.
func parseRange(line string) (float64, bool) {
	if !strings.HasPrefix(strings.TrimSpace(line), "LT") {
		return 0, false
	}
	parts := strings.Split(line, "=")
	if len(parts) < 3 {
		return 0, false
	}
	fields := strings.Fields(parts[2])
	if len(fields) == 0 {
		return 0, false
	}
	rg, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return rg, true
}

// readPlain parses whitespace-delimited rows: jd x y z [rg].
func readPlain(first string, scanner *bufio.Scanner) (*Table, error) {
	t := &Table{}
	row := 0

	parseRow := func(line string) error {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return nil
		}
		row++
		fields := strings.Fields(trimmed)
		if len(fields) != 4 && len(fields) != 5 {
			return &ParseError{Row: row, Reason: fmt.Sprintf("expected 4 or 5 fields, got %d", len(fields))}
		}
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return &ParseError{Row: row, Reason: fmt.Sprintf("non-numeric field %q", f)}
			}
			vals[i] = v
		}
		s := RawSample{JD: vals[0], X: vals[1], Y: vals[2], Z: vals[3]}
		if len(vals) == 5 {
			s.Distance = vals[4]
		} else {
			s.Distance = math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
		}
		if err := checkOrder(t.Samples, s, row); err != nil {
			return err
		}
		t.Samples = append(t.Samples, s)
		return nil
	}

	if err := parseRow(first); err != nil {
		return nil, err
	}
	for scanner.Scan() {
		if err := parseRow(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ephemeris table: %w", err)
	}
	if len(t.Samples) == 0 {
		return nil, &ParseError{Row: 1, Reason: "table has no samples"}
	}
	return t, nil
}

// checkOrder enforces chronological ordering of the sample series.
func checkOrder(samples []RawSample, next RawSample, row int) error {
	if n := len(samples); n > 0 && next.JD <= samples[n-1].JD {
		return &ParseError{
			Row:    row,
			Reason: fmt.Sprintf("Julian date %f not after previous sample %f", next.JD, samples[n-1].JD),
		}
	}
	return nil
}
