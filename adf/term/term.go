package term

import (
	"cmp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind is the variant of a Term. Kinds are ordered: absent, literal, named
// node, blank node.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindLiteral
	KindNamed
	KindBlank
)

var kindNames = [...]string{"absent", "literal", "named", "blank"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Term is an immutable RDF term.
type Term struct {
	kind     Kind
	value    string
	datatype string
	lang     string
}

// NamedNode returns the named node for iri. The empty IRI is allowed and
// refers to the document itself.
func NamedNode(iri string) Term {
	return Term{kind: KindNamed, value: iri}
}

// BlankNode returns a blank node with the given label. Labels are only
// meaningful within one file and are made of ASCII letters, digits, '_', '-'
// and ':'. Any other character is replaced by '_'; the empty label becomes
// "_".
func BlankNode(label string) Term {
	if label == "" {
		label = "_"
	}
	label = strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && isLabelByte(byte(r)) {
			return r
		}
		return '_'
	}, label)
	return Term{kind: KindBlank, value: label}
}

// NewBlankNode returns a blank node with a fresh random label.
func NewBlankNode() Term {
	return BlankNode(uuid.New().String())
}

// Kind returns the variant of t.
func (t Term) Kind() Kind { return t.kind }

// IsAbsent reports whether t is the zero Term.
func (t Term) IsAbsent() bool { return t.kind == KindAbsent }

// IsNamed reports whether t is a named node.
func (t Term) IsNamed() bool { return t.kind == KindNamed }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.kind == KindLiteral }

// Value returns the IRI of a named node, the label of a blank node or the
// lexical form of a literal.
func (t Term) Value() string { return t.value }

// Datatype returns the datatype IRI of a literal, or "" for other kinds.
func (t Term) Datatype() string { return t.datatype }

// Language returns the language tag of a literal, or "".
func (t Term) Language() string { return t.lang }

// Compare orders terms: absent first, then literals, named nodes and blank
// nodes. Literals with a language tag sort before typed literals; ties are
// broken by lexical value, then datatype, then language.
func Compare(a, b Term) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	if a.kind == KindLiteral {
		aTyped, bTyped := a.lang == "", b.lang == ""
		if aTyped != bTyped {
			if aTyped {
				return 1
			}
			return -1
		}
	}
	if c := strings.Compare(a.value, b.value); c != 0 {
		return c
	}
	if c := strings.Compare(a.datatype, b.datatype); c != 0 {
		return c
	}
	return strings.Compare(a.lang, b.lang)
}

// String returns the N3 form of t, or "" for the absent term.
func (t Term) String() string {
	return t.N3()
}
