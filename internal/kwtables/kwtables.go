// Package kwtables flattens keyword table sections of a parsed deck into
// long-format tables. Each keyword gets a static column schema; records are
// reshaped against the schema width and tagged with a 1-based region index
// column and a KEYWORD column so heterogeneous keyword tables concatenate
// into one table under a union schema.
package kwtables

import (
	"fmt"
	"sort"

	"eclcli/internal/deck"
	"eclcli/internal/tabular"
)

// KeywordColumn tags every emitted row with its source keyword.
const KeywordColumn = "KEYWORD"

// Schema is the static column layout for one keyword. The total scalar count
// of a logical row equals the number of columns.
type Schema struct {
	Columns []string
}

// PVTSchemas maps the PVT keyword set onto column names. The index column
// (PVTNUM) is added by the extractor, not listed here.
var PVTSchemas = map[string]Schema{
	"DENSITY": {Columns: []string{"OILDENSITY", "WATERDENSITY", "GASDENSITY"}},
	"PVTW":    {Columns: []string{"PRESSURE", "VOLUMEFACTOR", "COMPRESSIBILITY", "VISCOSITY", "VISCOSIBILITY"}},
	"PVTO":    {Columns: []string{"GOR", "PRESSURE", "VOLUMEFACTOR", "VISCOSITY"}},
	"PVTG":    {Columns: []string{"PRESSURE", "RV", "VOLUMEFACTOR", "VISCOSITY"}},
	"PVDG":    {Columns: []string{"PRESSURE", "VOLUMEFACTOR", "VISCOSITY"}},
	"ROCK":    {Columns: []string{"PRESSURE", "COMPRESSIBILITY"}},
}

// SatSchemas maps the saturation-function keyword set; index column SATNUM.
var SatSchemas = map[string]Schema{
	"SWOF":  {Columns: []string{"SW", "KRW", "KROW", "PCOW"}},
	"SGOF":  {Columns: []string{"SG", "KRG", "KROG", "PCOG"}},
	"SLGOF": {Columns: []string{"SL", "KRG", "KROG", "PCOG"}},
	"SWFN":  {Columns: []string{"SW", "KRW", "PCOW"}},
	"SGFN":  {Columns: []string{"SG", "KRG", "PCOG"}},
	"SOF2":  {Columns: []string{"SO", "KRO"}},
	"SOF3":  {Columns: []string{"SO", "KROW", "KROG"}},
}

// SchemaMismatchError reports a record whose scalar count is not a multiple
// of the keyword's schema width. Fatal for that keyword only.
type SchemaMismatchError struct {
	Keyword string
	Record  int
	Length  int
	Width   int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("keyword %s record %d: %d values is not a multiple of schema width %d",
		e.Keyword, e.Record, e.Length, e.Width)
}

// CardinalityMismatchError reports disagreement between the resolved region
// count and the number of records actually present. Fatal for that keyword
// only; truncating or padding would silently misattribute regions.
type CardinalityMismatchError struct {
	Keyword string
	Want    int
	Got     int
}

func (e *CardinalityMismatchError) Error() string {
	return fmt.Sprintf("keyword %s: resolved region count %d but deck holds %d records", e.Keyword, e.Want, e.Got)
}

// Options tunes extraction.
type Options struct {
	// RegionCount, when positive, is the resolved index cardinality every
	// extracted keyword must match.
	RegionCount int
}

// Extract flattens every keyword present in both the deck and the schema set
// into one long-format table keyed by indexColumn. Keywords are processed in
// deck order; a keyword that fails reshaping or cardinality checks is
// reported in the returned error list and omitted from the table, leaving
// sibling keywords untouched. A deck without any schema keyword yields a
// schema-only empty table and an empty error list.
func Extract(d *deck.Deck, schemas map[string]Schema, indexColumn string, opts Options) (*tabular.Table, []error) {
	var parts []*tabular.Table
	var errs []error

	for _, name := range d.Keywords() {
		schema, ok := schemas[name]
		if !ok {
			continue
		}
		section, _ := d.Section(name)
		part, err := extractKeyword(section, schema, indexColumn, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		// Schema-only result so callers can tell "no data" from "no errors".
		return emptyTable(schemas, indexColumn), errs
	}
	return tabular.Concat(parts...), errs
}

// extractKeyword builds the sub-table for one keyword section.
func extractKeyword(section *deck.KeywordSection, schema Schema, indexColumn string, opts Options) (*tabular.Table, error) {
	width := len(schema.Columns)
	if opts.RegionCount > 0 && len(section.Records) != opts.RegionCount {
		return nil, &CardinalityMismatchError{Keyword: section.Name, Want: opts.RegionCount, Got: len(section.Records)}
	}

	columns := append([]string{KeywordColumn, indexColumn}, schema.Columns...)
	table := tabular.New(columns...)

	// The index is per record, not per physical row: a flat record owns all
	// of its reshaped rows under one index value.
	for recIdx, rec := range section.Records {
		scalars := rec.Scalars()
		if len(scalars)%width != 0 {
			return nil, &SchemaMismatchError{Keyword: section.Name, Record: recIdx + 1, Length: len(scalars), Width: width}
		}
		for row := 0; row < len(scalars)/width; row++ {
			cells := make([]tabular.Cell, 0, len(columns))
			cells = append(cells, tabular.String(section.Name), tabular.Int(int64(recIdx+1)))
			for col := 0; col < width; col++ {
				s := scalars[row*width+col]
				if s.IsDefault() {
					cells = append(cells, tabular.Null())
				} else if s.Kind() == deck.KindString {
					cells = append(cells, tabular.String(s.Str()))
				} else {
					cells = append(cells, tabular.Float(s.Float(0)))
				}
			}
			if err := table.Append(cells...); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// emptyTable builds the union schema over all keywords with zero rows.
func emptyTable(schemas map[string]Schema, indexColumn string) *tabular.Table {
	var parts []*tabular.Table
	for _, name := range sortedKeys(schemas) {
		columns := append([]string{KeywordColumn, indexColumn}, schemas[name].Columns...)
		parts = append(parts, tabular.New(columns...))
	}
	return tabular.Concat(parts...)
}

func sortedKeys(schemas map[string]Schema) []string {
	keys := make([]string, 0, len(schemas))
	for k := range schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
