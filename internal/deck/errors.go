package deck

import "fmt"

// ParseError reports malformed deck syntax. It is fatal for the whole deck.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("deck parse error at line %d: %s", e.Line, e.Message)
}

// RecordCountError reports that a keyword's section held more or fewer
// records than its resolved count. Trailing distinguishes leftover data from
// a short read; the inference loop treats both as a failed guess.
type RecordCountError struct {
	Keyword  string
	Want     int
	Got      int
	Trailing bool
	Line     int
}

func (e *RecordCountError) Error() string {
	if e.Trailing {
		return fmt.Sprintf("keyword %s: trailing data after %d records at line %d", e.Keyword, e.Want, e.Line)
	}
	return fmt.Sprintf("keyword %s: expected %d records, section ended after %d", e.Keyword, e.Want, e.Got)
}

// MissingSizeError reports that a keyword's record count is declared by a
// sizing keyword that is absent from the deck.
type MissingSizeError struct {
	Keyword string
	Sizing  string
}

func (e *MissingSizeError) Error() string {
	return fmt.Sprintf("keyword %s is sized by %s, which is not present in the deck", e.Keyword, e.Sizing)
}
