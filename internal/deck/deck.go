// Package deck implements a read-only token model for simulator input decks
// and a strict parser for the keyword-table subset of the deck grammar.
//
// A deck is an ordered list of keyword sections; a section holds records
// (terminator-delimited value groups); a record holds items; an item holds
// scalars. Defaulted values ("1*", "3*" and friends) are a first-class scalar
// variant, not an absent key.
//
// The parser is deliberately strict about record counts for keywords it
// knows: reading too few records before the next keyword name, or leaving
// data behind after the expected count, are distinct errors. That strictness
// is what lets the inferdims package validate repeat-count guesses by
// re-parsing.
package deck

// ScalarKind discriminates the value variants a deck item can hold.
type ScalarKind int

const (
	// KindDefault marks a value the deck left unsupplied ("1*" style).
	KindDefault ScalarKind = iota
	// KindNumber is a numeric value.
	KindNumber
	// KindString is a textual value.
	KindString
)

// Scalar is a single deck value.
type Scalar struct {
	kind ScalarKind
	num  float64
	str  string
}

// Number wraps a numeric scalar.
func Number(v float64) Scalar { return Scalar{kind: KindNumber, num: v} }

// Text wraps a string scalar.
func Text(s string) Scalar { return Scalar{kind: KindString, str: s} }

// Default returns the defaulted-value sentinel.
func Default() Scalar { return Scalar{kind: KindDefault} }

// Kind returns the scalar variant.
func (s Scalar) Kind() ScalarKind { return s.kind }

// IsDefault reports whether the value was defaulted in the deck.
func (s Scalar) IsDefault() bool { return s.kind == KindDefault }

// Float returns the numeric value, or def when the scalar is defaulted or
// non-numeric.
func (s Scalar) Float(def float64) float64 {
	if s.kind == KindNumber {
		return s.num
	}
	return def
}

// Str returns the string value, or the empty string for other kinds.
func (s Scalar) Str() string { return s.str }

// Item is one positional field within a record. Repeat-counts expand into
// multiple scalars.
type Item []Scalar

// Record is one terminator-delimited group of items.
type Record []Item

// Scalars flattens the record into its scalar values in order.
func (r Record) Scalars() []Scalar {
	var out []Scalar
	for _, item := range r {
		out = append(out, item...)
	}
	return out
}

// KeywordSection is one named keyword with its records, in deck order.
type KeywordSection struct {
	Name    string
	Records []Record
}

// Deck is the parsed token model. Section order is deck text order.
type Deck struct {
	sections []KeywordSection
}

// Sections returns all keyword sections in deck order.
func (d *Deck) Sections() []KeywordSection { return d.sections }

// Has reports whether a keyword appears in the deck.
func (d *Deck) Has(name string) bool {
	_, ok := d.Section(name)
	return ok
}

// Section returns the first section with the given keyword name.
func (d *Deck) Section(name string) (*KeywordSection, bool) {
	for i := range d.sections {
		if d.sections[i].Name == name {
			return &d.sections[i], true
		}
	}
	return nil, false
}

// Keywords returns the distinct keyword names in order of first appearance.
func (d *Deck) Keywords() []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range d.sections {
		if !seen[s.Name] {
			seen[s.Name] = true
			out = append(out, s.Name)
		}
	}
	return out
}

// ItemFloat reads the scalar at the given item position of a record, falling
// back to def for defaulted values or when the record ends before the
// position (a record terminated early defaults its remaining items).
func ItemFloat(rec Record, pos int, def float64) float64 {
	if pos >= len(rec) || len(rec[pos]) == 0 {
		return def
	}
	return rec[pos][0].Float(def)
}
