package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNoTerm is returned by Parse when the input does not start with a term.
var ErrNoTerm = errors.New("term: no term")

// N3 returns the canonical N3 encoding of t: <iri>, _:label, "text",
// "text"@lang or "text"^^<datatype>. Plain string literals omit the datatype.
func (t Term) N3() string {
	var sb strings.Builder
	t.appendN3(&sb)
	return sb.String()
}

func (t Term) appendN3(sb *strings.Builder) {
	switch t.kind {
	case KindNamed:
		appendIRI(sb, t.value)
	case KindBlank:
		sb.WriteString("_:")
		sb.WriteString(t.value)
	case KindLiteral:
		sb.WriteByte('"')
		escape(sb, t.value)
		sb.WriteByte('"')
		switch {
		case t.lang != "":
			sb.WriteByte('@')
			sb.WriteString(t.lang)
		case t.datatype != XSDString:
			sb.WriteString("^^")
			appendIRI(sb, t.datatype)
		}
	}
}

// appendIRI writes <iri>, escaping as \u00XX the bytes an IRIREF cannot hold.
func appendIRI(sb *strings.Builder, iri string) {
	const hex = "0123456789ABCDEF"
	sb.WriteByte('<')
	for i := 0; i < len(iri); i++ {
		c := iri[i]
		if c <= ' ' || strings.IndexByte("<>\"{}|^`\\", c) >= 0 {
			sb.WriteString(`\u00`)
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0xF])
			continue
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('>')
}

func escape(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
}

// Decode parses one term at the start of text. Leading whitespace belongs to
// the term. It returns the term and the unconsumed remainder of text. When no
// term can be read, Decode returns the absent term, the whole of text and
// false.
//
// Besides the forms produced by N3, Decode accepts bare numbers: 42 is an
// xsd:integer, 4.2 an xsd:decimal and 4.2e1 an xsd:double.
func Decode(text string) (Term, string, bool) {
	s := strings.TrimLeft(text, " \t\r\n")
	var (
		t    Term
		rest string
		ok   bool
	)
	switch {
	case strings.HasPrefix(s, "<"):
		t, rest, ok = decodeNamed(s)
	case strings.HasPrefix(s, "_:"):
		t, rest, ok = decodeBlank(s)
	case strings.HasPrefix(s, `"`):
		t, rest, ok = decodeLiteral(s)
	default:
		t, rest, ok = decodeNumber(s)
	}
	if !ok {
		return Term{}, text, false
	}
	return t, rest, true
}

// Parse decodes text, which must hold exactly one term optionally surrounded
// by whitespace.
func Parse(text string) (Term, error) {
	t, rest, ok := Decode(text)
	if !ok {
		return Term{}, fmt.Errorf("%w: %q", ErrNoTerm, text)
	}
	if strings.TrimSpace(rest) != "" {
		return Term{}, fmt.Errorf("term: trailing input %q after %s", rest, t)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Term {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

func decodeNamed(s string) (Term, string, bool) {
	iri, rest, ok := decodeIRI(s)
	if !ok {
		return Term{}, s, false
	}
	return NamedNode(iri), rest, true
}

// decodeIRI reads <iri>, resolving \u and \U escapes.
func decodeIRI(s string) (string, string, bool) {
	if !strings.HasPrefix(s, "<") {
		return "", s, false
	}
	var sb strings.Builder
	for i := 1; i < len(s); {
		switch c := s[i]; {
		case c == '>':
			return sb.String(), s[i+1:], true
		case c == '\\':
			if i+1 >= len(s) || (s[i+1] != 'u' && s[i+1] != 'U') {
				return "", s, false
			}
			r, n, ok := unescape(s[i+1:])
			if !ok {
				return "", s, false
			}
			sb.WriteRune(r)
			i += 1 + n
		case c <= ' ' || c == '<' || c == '"':
			return "", s, false
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", s, false
}

func decodeBlank(s string) (Term, string, bool) {
	i := 2
	for i < len(s) && isLabelByte(s[i]) {
		i++
	}
	if i == 2 {
		return Term{}, s, false
	}
	return BlankNode(s[2:i]), s[i:], true
}

func isLabelByte(c byte) bool {
	return c == '_' || c == '-' || c == ':' ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func decodeLiteral(s string) (Term, string, bool) {
	var sb strings.Builder
	i := 1
	for {
		if i >= len(s) {
			return Term{}, s, false
		}
		c := s[i]
		if c == '"' {
			i++
			break
		}
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return Term{}, s, false
		}
		n, consumed, ok := unescape(s[i+1:])
		if !ok {
			return Term{}, s, false
		}
		sb.WriteRune(n)
		i += 1 + consumed
	}
	value, rest := sb.String(), s[i:]

	switch {
	case strings.HasPrefix(rest, "@"):
		j := 1
		for j < len(rest) && isLangByte(rest[j], j == 1) {
			j++
		}
		if j == 1 || rest[j-1] == '-' {
			return Term{}, s, false
		}
		return LangString(value, rest[1:j]), rest[j:], true
	case strings.HasPrefix(rest, "^^"):
		dt, after, ok := decodeIRI(rest[2:])
		if !ok {
			return Term{}, s, false
		}
		return Typed(value, dt), after, true
	}
	return String(value), rest, true
}

func isLangByte(c byte, first bool) bool {
	if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
		return true
	}
	return !first && (c == '-' || ('0' <= c && c <= '9'))
}

// unescape reads the escape sequence following a backslash.
func unescape(s string) (rune, int, bool) {
	switch s[0] {
	case '\\':
		return '\\', 1, true
	case '"':
		return '"', 1, true
	case '\'':
		return '\'', 1, true
	case 'n':
		return '\n', 1, true
	case 'r':
		return '\r', 1, true
	case 't':
		return '\t', 1, true
	case 'b':
		return '\b', 1, true
	case 'f':
		return '\f', 1, true
	case 'u', 'U':
		width := 4
		if s[0] == 'U' {
			width = 8
		}
		if len(s) < 1+width {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:1+width], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0, false
		}
		return rune(v), 1 + width, true
	}
	return 0, 0, false
}

func decodeNumber(s string) (Term, string, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart
	decimal := false
	if i < len(s) && s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) {
		decimal = true
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return Term{}, s, false
	}
	end := i
	exponent := false
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			exponent = true
			end = k
		}
	}
	lexical := s[:end]

	switch {
	case exponent:
		v, err := strconv.ParseFloat(lexical, 64)
		if err != nil {
			return Term{}, s, false
		}
		return Double(v), s[end:], true
	case decimal:
		return Typed(lexical, XSDDecimal), s[end:], true
	default:
		v, err := strconv.ParseInt(lexical, 10, 64)
		if err != nil {
			return Term{}, s, false
		}
		return Integer(v), s[end:], true
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
