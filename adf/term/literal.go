package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Well-known datatype IRIs.
const (
	XSD = "http://www.w3.org/2001/XMLSchema#"
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	XSDString     = XSD + "string"
	XSDInteger    = XSD + "integer"
	XSDDecimal    = XSD + "decimal"
	XSDDouble     = XSD + "double"
	XSDDateTime   = XSD + "dateTime"
	RDFLangString = RDF + "langString"
	RDFType       = RDF + "type"
)

const dateLayout = "2006-01-02T15:04:05.999Z07:00"

// String returns a plain string literal.
func String(text string) Term {
	return Term{kind: KindLiteral, value: text, datatype: XSDString}
}

// LangString returns a language-tagged string literal. Tags are stored in
// lower case with '_' turned into '-', and characters that cannot appear in a
// tag are dropped. A tag that ends up empty gives a plain string literal.
func LangString(text, lang string) Term {
	lang = normalizeLang(lang)
	if lang == "" {
		return String(text)
	}
	return Term{kind: KindLiteral, value: text, datatype: RDFLangString, lang: lang}
}

func normalizeLang(lang string) string {
	var sb strings.Builder
	for i := 0; i < len(lang); i++ {
		c := lang[i]
		switch {
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		case c == '_':
			c = '-'
		}
		if isLangByte(c, sb.Len() == 0) {
			sb.WriteByte(c)
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// Typed returns a literal with an arbitrary datatype. The lexical form is kept
// as given. An empty datatype means xsd:string.
func Typed(lexical, datatype string) Term {
	if datatype == "" {
		datatype = XSDString
	}
	return Term{kind: KindLiteral, value: lexical, datatype: datatype}
}

// Integer returns an xsd:integer literal.
func Integer(v int64) Term {
	return Term{kind: KindLiteral, value: strconv.FormatInt(v, 10), datatype: XSDInteger}
}

// Double returns an xsd:double literal using the shortest representation
// that parses back to v.
func Double(v float64) Term {
	return Term{kind: KindLiteral, value: formatDouble(v), datatype: XSDDouble}
}

// Date returns an xsd:dateTime literal in UTC, truncated to the millisecond.
func Date(t time.Time) Term {
	return Term{kind: KindLiteral, value: formatDate(t), datatype: XSDDateTime}
}

func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	return strconv.FormatFloat(v, 'e', -1, 64)
}

func formatDate(t time.Time) string {
	return time.UnixMilli(t.UnixMilli()).UTC().Format(dateLayout)
}

// AsInteger returns the value of an xsd:integer literal.
func (t Term) AsInteger() (int64, error) {
	if t.kind != KindLiteral || t.datatype != XSDInteger {
		return 0, fmt.Errorf("term: %s is not an integer literal", t)
	}
	v, err := strconv.ParseInt(t.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("term: integer literal %q: %w", t.value, err)
	}
	return v, nil
}

// AsDouble returns the value of an xsd:double, xsd:decimal or xsd:integer
// literal.
func (t Term) AsDouble() (float64, error) {
	if t.kind != KindLiteral {
		return 0, fmt.Errorf("term: %s is not a numeric literal", t)
	}
	switch t.datatype {
	case XSDDouble, XSDDecimal, XSDInteger:
	default:
		return 0, fmt.Errorf("term: %s is not a numeric literal", t)
	}
	v, err := strconv.ParseFloat(t.value, 64)
	if err != nil {
		return 0, fmt.Errorf("term: numeric literal %q: %w", t.value, err)
	}
	return v, nil
}

// AsDate returns the value of an xsd:dateTime literal. Literals without a
// time zone are read as UTC.
func (t Term) AsDate() (time.Time, error) {
	if t.kind != KindLiteral || t.datatype != XSDDateTime {
		return time.Time{}, fmt.Errorf("term: %s is not a date literal", t)
	}
	d, err := time.Parse(time.RFC3339Nano, t.value)
	if err != nil {
		d, err = time.ParseInLocation("2006-01-02T15:04:05.999999999", t.value, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("term: date literal %q: %w", t.value, err)
		}
	}
	return d.UTC(), nil
}

// AsString returns the lexical form of a plain or language-tagged string.
func (t Term) AsString() (string, error) {
	if t.kind != KindLiteral || (t.datatype != XSDString && t.datatype != RDFLangString) {
		return "", fmt.Errorf("term: %s is not a string literal", t)
	}
	return t.value, nil
}
