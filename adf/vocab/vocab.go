// Package vocab resolves the short predicate names used by lookups into
// named nodes.
//
// The default policy is the identity: "b" names <b>, and a full IRI names
// itself. A Vocabulary adds CURIE prefixes ("lyto:start-date") and plain
// aliases ("start"), and can be loaded from a YAML document:
//
//	prefixes:
//	  lyto: https://localhost/lytonepal#
//	aliases:
//	  start: lyto:start-date
//	  sfreq: https://localhost/lytonepal#sampling-frequency
package vocab

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-adf/adf/term"
)

// ErrUnknownPrefix is returned when a CURIE uses an undeclared prefix.
var ErrUnknownPrefix = errors.New("vocab: unknown prefix")

// Namespaces known to every Vocabulary.
const (
	Lytonepal = "https://localhost/lytonepal#"
	RDF       = term.RDF
	XSD       = term.XSD
)

// Predicates used by the recording metadata.
var (
	ColumnNumber      = Lyto("column-number")
	HasChannel        = Lyto("has-channel")
	StartDate         = Lyto("start-date")
	SamplingFrequency = Lyto("sampling-frequency")
	Type              = term.NamedNode(term.RDFType)
)

// Lyto returns the named node for a concept of the lytonepal namespace.
func Lyto(concept string) term.Term {
	return term.NamedNode(Lytonepal + concept)
}

// Resolver maps a short name to a predicate.
type Resolver interface {
	Resolve(name string) (term.Term, error)
}

// Identity resolves every name to the named node with that IRI.
type Identity struct{}

// Resolve implements Resolver.
func (Identity) Resolve(name string) (term.Term, error) {
	return term.NamedNode(name), nil
}

// Vocabulary resolves aliases and CURIEs, falling back to the identity.
type Vocabulary struct {
	prefixes map[string]string
	aliases  map[string]string
}

// New returns a vocabulary with the rdf, xsd and lyto prefixes declared.
func New() *Vocabulary {
	return &Vocabulary{
		prefixes: map[string]string{
			"rdf":  RDF,
			"xsd":  XSD,
			"lyto": Lytonepal,
		},
		aliases: map[string]string{},
	}
}

// AddPrefix declares a CURIE prefix.
func (v *Vocabulary) AddPrefix(prefix, namespace string) {
	v.prefixes[prefix] = namespace
}

// AddAlias declares a short name. The target may itself be a CURIE.
func (v *Vocabulary) AddAlias(alias, target string) {
	v.aliases[alias] = target
}

// Resolve implements Resolver. Aliases are looked up first, then CURIEs with
// a declared prefix. Names that look like a CURIE with an unknown prefix are
// an error; anything else, including absolute IRIs such as "https://...",
// resolves to itself. A name wrapped in angle brackets is always taken
// verbatim.
func (v *Vocabulary) Resolve(name string) (term.Term, error) {
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") {
		return term.NamedNode(name[1 : len(name)-1]), nil
	}
	if target, ok := v.aliases[name]; ok {
		name = target
	}
	prefix, local, ok := strings.Cut(name, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return term.NamedNode(name), nil
	}
	ns, known := v.prefixes[prefix]
	if !known {
		if prefix == "urn" || prefix == "mailto" {
			return term.NamedNode(name), nil
		}
		return term.Term{}, fmt.Errorf("%w: %q in %q", ErrUnknownPrefix, prefix, name)
	}
	return term.NamedNode(ns + local), nil
}

// Document is the YAML form of a Vocabulary.
type Document struct {
	Prefixes map[string]string `yaml:"prefixes"`
	Aliases  map[string]string `yaml:"aliases"`
}

// Validate checks that no prefix or alias is empty.
func (d *Document) Validate() error {
	for prefix, ns := range d.Prefixes {
		if prefix == "" || ns == "" {
			return fmt.Errorf("vocab: prefix %q: name and namespace are required", prefix)
		}
		if strings.Contains(prefix, ":") {
			return fmt.Errorf("vocab: prefix %q must not contain a colon", prefix)
		}
	}
	for alias, target := range d.Aliases {
		if alias == "" || target == "" {
			return fmt.Errorf("vocab: alias %q: name and target are required", alias)
		}
	}
	return nil
}

// Parse reads a YAML vocabulary. Declarations extend the defaults of New.
func Parse(data []byte) (*Vocabulary, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("vocab: parse YAML: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	v := New()
	for prefix, ns := range doc.Prefixes {
		v.AddPrefix(prefix, ns)
	}
	for alias, target := range doc.Aliases {
		v.AddAlias(alias, target)
	}
	return v, nil
}

// Load reads a YAML vocabulary file.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	return Parse(data)
}
