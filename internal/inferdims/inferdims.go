// Package inferdims recovers table repeat counts that the deck grammar
// allows to stay implicit. When a sizing keyword such as TABDIMS declares the
// count, it is read directly; when the sizing keyword is absent, the count is
// found by guess-by-reparse: candidate counts are injected into a private
// copy of the deck text, smallest first, and the first candidate the strict
// deck parser accepts wins.
package inferdims

import (
	"fmt"
	"regexp"
	"strings"

	"eclcli/internal/deck"
)

// DefaultCeiling bounds the guess-by-reparse search.
const DefaultCeiling = 100

// Provenance records how a count was obtained.
type Provenance int

const (
	// Declared counts were read from a sizing keyword present in the deck.
	Declared Provenance = iota
	// Inferred counts were recovered by guess-by-reparse.
	Inferred
)

func (p Provenance) String() string {
	if p == Declared {
		return "declared"
	}
	return "inferred"
}

// Directive identifies where a repeat count lives inside a sizing keyword's
// first record.
type Directive struct {
	Keyword string
	Item    int
}

// Count is a resolved repeat count.
type Count struct {
	N          int
	Provenance Provenance
}

// AmbiguousDimensionError reports that no candidate count in the attempted
// range produced a consistent parse. It is fatal for the extraction call:
// silently assuming a count of 1 would corrupt every subsequent table index.
type AmbiguousDimensionError struct {
	Keyword string
	From    int
	To      int
}

func (e *AmbiguousDimensionError) Error() string {
	return fmt.Sprintf("cannot infer %s count: no candidate in %d..%d parses consistently", e.Keyword, e.From, e.To)
}

// HasKeyword is the syntactic presence check used to choose between the
// declared and inferred paths. It looks for the keyword opening a line, the
// only position the grammar allows a keyword header.
func HasKeyword(deckText, keyword string) bool {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(keyword) + `\b`)
	return re.MatchString(deckText)
}

// Inject textually prepends a minimal sizing-keyword record with the count at
// the given item position and every earlier field defaulted. It never
// modifies a deck that already carries the keyword.
func Inject(deckText, keyword string, pos, count int) string {
	if HasKeyword(deckText, keyword) {
		return deckText
	}
	var b strings.Builder
	b.WriteString(keyword)
	b.WriteString("\n ")
	if pos > 0 {
		fmt.Fprintf(&b, "%d* ", pos)
	}
	fmt.Fprintf(&b, "%d /\n\n", count)
	b.WriteString(deckText)
	return b.String()
}

// Resolve determines the repeat count governed by the directive for the given
// deck text. A ceiling of 0 uses DefaultCeiling.
func Resolve(deckText string, d Directive, ceiling int) (Count, error) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if HasKeyword(deckText, d.Keyword) {
		return declaredCount(deckText, d)
	}

	// Candidates must be tried in increasing order: the contract is the
	// smallest successful guess, not any successful guess.
	for n := 1; n <= ceiling; n++ {
		if _, err := deck.Parse(Inject(deckText, d.Keyword, d.Item, n)); err == nil {
			return Count{N: n, Provenance: Inferred}, nil
		}
	}
	return Count{}, &AmbiguousDimensionError{Keyword: d.Keyword, From: 1, To: ceiling}
}

// declaredCount reads the count straight out of the sizing keyword's first
// record. A defaulted field means 1.
func declaredCount(deckText string, d Directive) (Count, error) {
	parsed, err := deck.Parse(deckText)
	if err != nil {
		return Count{}, err
	}
	section, ok := parsed.Section(d.Keyword)
	if !ok || len(section.Records) == 0 {
		return Count{}, &deck.ParseError{Message: fmt.Sprintf("sizing keyword %s matched syntactically but has no records", d.Keyword)}
	}
	n := int(deck.ItemFloat(section.Records[0], d.Item, 1))
	if n < 1 {
		return Count{}, &deck.ParseError{Message: fmt.Sprintf("sizing keyword %s declares non-positive count %d", d.Keyword, n)}
	}
	return Count{N: n, Provenance: Declared}, nil
}
