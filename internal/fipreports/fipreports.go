// Package fipreports extracts fluid-in-place region report blocks from
// simulator PRT run logs. The scan is a two-state line machine: report date
// stamps update the current date, a "<FIPNAME> REPORT REGION n" header opens
// a block, a full row of '=' closes it, and classified data lines inside a
// block become typed rows stamped with the current date and region.
package fipreports

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eclcli/internal/tabular"
)

// RowKind names the report line a row came from. The five well-known kinds
// have constants; other labels sharing an allowed prefix (such as "OUTFLOW TO
// OTHER REGIONS") pass through as their literal text.
type RowKind string

const (
	CurrentlyInPlace     RowKind = "CURRENTLY IN PLACE"
	OutflowToRegion      RowKind = "OUTFLOW TO REGION"
	OutflowThroughWells  RowKind = "OUTFLOW THROUGH WELLS"
	MaterialBalanceError RowKind = "MATERIAL BALANCE ERROR."
	OriginallyInPlace    RowKind = "ORIGINALLY IN PLACE"
)

// Row is one parsed report line. Optional fields are nil when the report's
// phase configuration omitted that column; Date is nil and Region zero when
// no date stamp or block header preceded the line, which is a degenerate but
// non-fatal condition.
type Row struct {
	Date         *time.Time
	FIPName      string
	Region       int
	Kind         RowKind
	ToRegion     *int
	LiquidOil    *float64
	VapourOil    *float64
	TotalOil     *float64
	TotalWater   float64
	FreeGas      *float64
	DissolvedGas *float64
	TotalGas     *float64
}

// RowShapeError reports a line that matched an allowed row prefix but whose
// field token counts fall outside the recognized shapes. The row is dropped
// and the scan continues; one malformed line must not discard the rest of a
// long run log.
type RowShapeError struct {
	Line   string
	Reason string
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("unrecognized row shape (%s): %q", e.Reason, e.Line)
}

// Diagnostics summarizes a parse run in place of scattered logging.
type Diagnostics struct {
	LinesScanned int
	BlocksSeen   int
	DatesSeen    int
	RowsEmitted  int
	Dropped      []*RowShapeError
}

// Columns of the table view, matching the region report layout.
var Columns = []string{
	"DATE",
	"FIPNAME",
	"REGION",
	"DATATYPE",
	"TO_REGION",
	"STOIIP_OIL",
	"ASSOCIATEDOIL_GAS",
	"STOIIP_TOTAL",
	"WATER_TOTAL",
	"GIIP_GAS",
	"ASSOCIATEDGAS_OIL",
	"GIIP_TOTAL",
}

var allowedLineStarts = []string{" :CURRENTLY", " :OUTFLOW", " :MATERIAL", " :ORIGINALLY"}

var datePattern = regexp.MustCompile(`^\s\sREPORT\s+(\d+)\s+(\d+)\s+(\w+)\s+(\d+)`)

// simulator month spellings, including the non-standard JLY.
var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "JLY": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November,
	"DEC": time.December,
}

// ValidateFIPName checks the region family name: at most 8 characters, first
// three must be FIP.
func ValidateFIPName(fipname string) error {
	if !strings.HasPrefix(fipname, "FIP") {
		return fmt.Errorf("fipname %q must start with FIP", fipname)
	}
	if len(fipname) > 8 {
		return fmt.Errorf("fipname %q can be at most 8 characters", fipname)
	}
	return nil
}

// Parse scans report text for region report blocks belonging to the given
// FIP family and returns one Row per classified data line, with diagnostics
// covering everything that was skipped or dropped.
func Parse(r io.Reader, fipname string) ([]Row, Diagnostics, error) {
	var diag Diagnostics
	if err := ValidateFIPName(fipname); err != nil {
		return nil, diag, err
	}

	blockPattern := regexp.MustCompile(`^.+` + regexp.QuoteMeta(fipname) + `\s+REPORT\s+REGION\s+(\d+)`)

	var rows []Row
	var date *time.Time
	inBlock := false
	region := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		diag.LinesScanned++

		if m := datePattern.FindStringSubmatch(line); m != nil {
			if d, ok := parseReportDate(m); ok && (date == nil || !date.Equal(d)) {
				date = &d
				diag.DatesSeen++
			}
			continue
		}
		if m := blockPattern.FindStringSubmatch(line); m != nil {
			inBlock = true
			region, _ = strconv.Atoi(m[1])
			diag.BlocksSeen++
			continue
		}
		if strings.HasPrefix(line, " ============================") {
			inBlock = false
			region = 0
			continue
		}
		if !inBlock {
			continue
		}
		if !strings.HasPrefix(line, " :") || strings.HasPrefix(line, " :--") {
			continue
		}

		row, err := parseLine(line)
		if err != nil {
			if shapeErr, ok := err.(*RowShapeError); ok {
				diag.Dropped = append(diag.Dropped, shapeErr)
				continue
			}
			return rows, diag, err
		}
		if row == nil {
			continue // inside a block but not an allowed row kind
		}
		row.Date = date
		row.FIPName = fipname
		row.Region = region
		rows = append(rows, *row)
		diag.RowsEmitted++
	}
	if err := scanner.Err(); err != nil {
		return rows, diag, fmt.Errorf("reading report text: %w", err)
	}
	return rows, diag, nil
}

// parseReportDate builds a date from the groups of a "REPORT step day month
// year" stamp. Unknown month names make the stamp an ordinary non-matching
// line.
func parseReportDate(m []string) (time.Time, bool) {
	month, ok := months[strings.ToUpper(m[3])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[4])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// parseLine classifies one in-block line and parses its numeric fields.
// Returns (nil, nil) for lines that do not carry an allowed row name.
//
// The oil and gas fields each appear in one of three shapes depending on the
// run's phase configuration: three tokens (liquid, vapour, total), one token
// (total only), or two tokens (liquid and total, with the vapour/dissolved
// component omitted from the report rather than printed as zero). The water
// field is always a single token.
func parseLine(line string) (*Row, error) {
	allowed := false
	for _, prefix := range allowedLineStarts {
		if strings.HasPrefix(line, prefix) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, nil
	}

	sections := strings.Split(line, ":")
	if len(sections) < 5 {
		return nil, &RowShapeError{Line: line, Reason: fmt.Sprintf("%d colon-separated fields, need 5", len(sections))}
	}

	row := &Row{}
	label := sections[1]
	if strings.Contains(line, string(OutflowToRegion)) {
		fields := strings.Fields(label)
		if len(fields) < 4 {
			return nil, &RowShapeError{Line: line, Reason: "outflow-to-region row without a region index"}
		}
		to, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, &RowShapeError{Line: line, Reason: "non-numeric to-region index"}
		}
		row.Kind = OutflowToRegion
		row.ToRegion = &to
	} else {
		row.Kind = RowKind(strings.TrimSpace(label))
	}

	liquid, vapour, total, err := parsePhaseField(line, sections[2])
	if err != nil {
		return nil, err
	}
	row.LiquidOil, row.VapourOil, row.TotalOil = liquid, vapour, total

	water := strings.Fields(sections[3])
	if len(water) != 1 {
		return nil, &RowShapeError{Line: line, Reason: fmt.Sprintf("water field has %d tokens, need 1", len(water))}
	}
	w, err := strconv.ParseFloat(water[0], 64)
	if err != nil {
		return nil, &RowShapeError{Line: line, Reason: "non-numeric water total"}
	}
	row.TotalWater = w

	free, dissolved, totalGas, err := parsePhaseField(line, sections[4])
	if err != nil {
		return nil, err
	}
	row.FreeGas, row.DissolvedGas, row.TotalGas = free, dissolved, totalGas

	return row, nil
}

// parsePhaseField applies the token-count dispatch shared by the oil and gas
// fields. In the two-token shape the middle component collapses to nil while
// the first and total survive; that exact collapse must be preserved.
func parsePhaseField(line, field string) (first, middle, total *float64, err error) {
	tokens := strings.Fields(field)
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, perr := strconv.ParseFloat(tok, 64)
		if perr != nil {
			return nil, nil, nil, &RowShapeError{Line: line, Reason: fmt.Sprintf("non-numeric token %q", tok)}
		}
		values[i] = v
	}
	switch len(values) {
	case 3:
		return &values[0], &values[1], &values[2], nil
	case 1:
		return nil, nil, &values[0], nil
	case 2:
		return &values[0], nil, &values[1], nil
	}
	return nil, nil, nil, &RowShapeError{Line: line, Reason: fmt.Sprintf("phase field has %d tokens", len(values))}
}

// Table renders rows in the region report column layout.
func Table(rows []Row) *tabular.Table {
	t := tabular.New(Columns...)
	for _, r := range rows {
		dateCell := tabular.Null()
		if r.Date != nil {
			dateCell = tabular.Date(*r.Date)
		}
		regionCell := tabular.Null()
		if r.Region != 0 {
			regionCell = tabular.Int(int64(r.Region))
		}
		toCell := tabular.Null()
		if r.ToRegion != nil {
			toCell = tabular.Int(int64(*r.ToRegion))
		}
		// Append cannot fail here: the cell count mirrors Columns.
		_ = t.Append(
			dateCell,
			tabular.String(r.FIPName),
			regionCell,
			tabular.String(string(r.Kind)),
			toCell,
			tabular.FloatPtr(r.LiquidOil),
			tabular.FloatPtr(r.VapourOil),
			tabular.FloatPtr(r.TotalOil),
			tabular.Float(r.TotalWater),
			tabular.FloatPtr(r.FreeGas),
			tabular.FloatPtr(r.DissolvedGas),
			tabular.FloatPtr(r.TotalGas),
		)
	}
	return t
}
