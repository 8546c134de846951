package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// token is one lexical unit of the deck text. Keyword names are only
// recognized as the first token on a line, which is how the deck grammar
// separates keyword headers from data lines starting with numbers.
type token struct {
	text  string
	line  int
	first bool
}

var keywordPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}$`)

// isKeywordToken reports whether a token can open a keyword section.
func isKeywordToken(t token) bool {
	if !t.first || !keywordPattern.MatchString(t.text) {
		return false
	}
	_, err := strconv.ParseFloat(t.text, 64)
	return err != nil
}

// tokenize splits deck text into tokens. "--" starts a comment running to end
// of line, and everything after a record terminator on the same line is
// ignored, both per the deck grammar.
func tokenize(text string) []token {
	var out []token
	for lineNo, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		first := true
		pos := 0
		for pos < len(line) {
			for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t' || line[pos] == '\r') {
				pos++
			}
			if pos >= len(line) {
				break
			}
			start := pos
			switch line[pos] {
			case '\'', '"':
				quote := line[pos]
				pos++
				for pos < len(line) && line[pos] != quote {
					pos++
				}
				if pos < len(line) {
					pos++
				}
			default:
				for pos < len(line) && line[pos] != ' ' && line[pos] != '\t' && line[pos] != '\r' {
					pos++
				}
			}
			tok := token{text: line[start:pos], line: lineNo + 1, first: first}
			first = false
			out = append(out, tok)
			if tok.text == "/" {
				pos = len(line) // rest of line is commentary
			}
		}
	}
	return out
}

// parser walks the token stream.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

// Parse builds the token model from deck text. Keywords in the supported
// subset are parsed strictly against their resolved record counts; unknown
// keywords are recorded by name and their data skipped.
func Parse(text string) (*Deck, error) {
	p := &parser{toks: tokenize(text)}
	d := &Deck{}
	for {
		t, ok := p.next()
		if !ok {
			return d, nil
		}
		if !isKeywordToken(t) {
			return nil, &ParseError{Line: t.line, Message: fmt.Sprintf("unexpected token %q outside any keyword", t.text)}
		}
		meta, known := MetaFor(t.text)
		if !known {
			d.sections = append(d.sections, KeywordSection{Name: t.text})
			p.skipUnknown()
			continue
		}
		section, err := p.parseKeyword(d, meta)
		if err != nil {
			return nil, err
		}
		d.sections = append(d.sections, section)
	}
}

// skipUnknown drops tokens until the next keyword header.
func (p *parser) skipUnknown() {
	for {
		t, ok := p.peek()
		if !ok || isKeywordToken(t) {
			return
		}
		p.pos++
	}
}

// parseKeyword reads a known keyword's records against its resolved count.
func (p *parser) parseKeyword(d *Deck, meta Meta) (KeywordSection, error) {
	count := meta.Records
	if meta.Sized != nil {
		sizing, ok := d.Section(meta.Sized.Keyword)
		if !ok || len(sizing.Records) == 0 {
			return KeywordSection{}, &MissingSizeError{Keyword: meta.Name, Sizing: meta.Sized.Keyword}
		}
		count = int(ItemFloat(sizing.Records[0], meta.Sized.Item, 1))
		if count < 1 {
			return KeywordSection{}, &ParseError{Message: fmt.Sprintf("keyword %s: non-positive count %d declared in %s", meta.Name, count, meta.Sized.Keyword)}
		}
	}
	if count == 0 {
		count = 1
	}

	section := KeywordSection{Name: meta.Name}
	for i := 0; i < count; i++ {
		rec, err := p.parseRecord(meta, count, i)
		if err != nil {
			return KeywordSection{}, err
		}
		section.Records = append(section.Records, rec)
	}

	// The section must end exactly at the next keyword header or at end of
	// input; anything else is data the count did not account for.
	if t, ok := p.peek(); ok && !isKeywordToken(t) {
		return KeywordSection{}, &RecordCountError{Keyword: meta.Name, Want: count, Got: count, Trailing: true, Line: t.line}
	}
	return section, nil
}

// parseRecord reads values until the record terminator.
func (p *parser) parseRecord(meta Meta, want, got int) (Record, error) {
	var scalars []Scalar
	for {
		t, ok := p.peek()
		if !ok || isKeywordToken(t) {
			return nil, &RecordCountError{Keyword: meta.Name, Want: want, Got: got, Line: t.line}
		}
		p.pos++
		if t.text == "/" {
			break
		}
		vals, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		scalars = append(scalars, vals...)
	}
	if meta.Layout == LayoutData {
		return Record{Item(scalars)}, nil
	}
	rec := make(Record, len(scalars))
	for i, s := range scalars {
		rec[i] = Item{s}
	}
	return rec, nil
}

// parseValue expands one value token into scalars, handling the "N*",
// "N*value" and quoted-string forms.
func parseValue(t token) ([]Scalar, error) {
	text := t.text
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') {
		return []Scalar{Text(strings.Trim(text, string(text[0])))}, nil
	}
	if i := strings.IndexByte(text, '*'); i >= 0 {
		countText := text[:i]
		if countText == "" {
			countText = "1"
		}
		n, err := strconv.Atoi(countText)
		if err != nil || n < 1 {
			return nil, &ParseError{Line: t.line, Message: fmt.Sprintf("bad repeat count in %q", text)}
		}
		rest := text[i+1:]
		out := make([]Scalar, n)
		for j := range out {
			if rest == "" {
				out[j] = Default()
			} else if v, err := strconv.ParseFloat(rest, 64); err == nil {
				out[j] = Number(v)
			} else {
				out[j] = Text(rest)
			}
		}
		return out, nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return []Scalar{Number(v)}, nil
	}
	return []Scalar{Text(text)}, nil
}
