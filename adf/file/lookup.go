package file

import (
	"fmt"
	"slices"
	"time"

	"github.com/cwbudde/algo-adf/adf/statement"
	"github.com/cwbudde/algo-adf/adf/term"
)

// Lookup returns the distinct values of slot want among active statements
// whose match slots equal those of pattern. Every slot named by match must be
// present in pattern; slots of pattern not named by match are ignored.
// Statements where want is absent contribute nothing. Values are returned in
// term order.
func (f *File) Lookup(pattern *statement.Statement, match statement.Order, want statement.Key) ([]term.Term, error) {
	wantPos := slot(want)
	if wantPos < 0 {
		return nil, fmt.Errorf("file: lookup of unknown slot %s", want)
	}

	var (
		prefix quad
		fixed  [4]bool
	)
	known := true
	for _, k := range match {
		p := slot(k)
		if p < 0 {
			return nil, fmt.Errorf("file: match on unknown slot %s", k)
		}
		t, ok := pattern.Get(k)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not set", ErrIncompletePattern, k)
		}
		h, ok := f.handle(t)
		if !ok {
			known = false
		}
		prefix[p], fixed[p] = h, true
	}
	if !known {
		return []term.Term{}, nil
	}

	seen := make(map[uint32]bool)
	out := []term.Term{}
	for _, row := range f.scan(prefix, fixed, false) {
		h := f.log[row].quad[wantPos]
		if h == 0 || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, f.terms[h])
	}
	slices.SortFunc(out, term.Compare)
	return out, nil
}

// LookupOption configures LookupStatements.
type LookupOption func(*lookupConfig)

type lookupConfig struct {
	history bool
}

// IncludeDeleted makes LookupStatements return every record of the log,
// superseded and deleted ones included, instead of the active set.
func IncludeDeleted() LookupOption {
	return func(c *lookupConfig) { c.history = true }
}

// LookupStatements returns copies of the statements whose present slots
// equal those of pattern. Results follow the order of the index serving the
// query; records of the same quad appear in log order.
func (f *File) LookupStatements(pattern *statement.Statement, opts ...LookupOption) []*statement.Statement {
	var cfg lookupConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	prefix, fixed, ok := f.patternQuad(pattern)
	if !ok {
		return nil
	}
	rows := f.scan(prefix, fixed, cfg.history)
	out := make([]*statement.Statement, len(rows))
	for i, row := range rows {
		out[i] = f.statementAt(row)
	}
	return out
}

// LookupSubjects returns the subjects of active statements with the given
// object and the predicate named by predicate.
func (f *File) LookupSubjects(object term.Term, predicate string) ([]term.Term, error) {
	p, err := f.resolver.Resolve(predicate)
	if err != nil {
		return nil, fmt.Errorf("file: resolve predicate: %w", err)
	}
	return f.subjects(p, object)
}

// LookupObjects returns the objects of active statements with the given
// subject and the predicate named by predicate.
func (f *File) LookupObjects(subject term.Term, predicate string) ([]term.Term, error) {
	p, err := f.resolver.Resolve(predicate)
	if err != nil {
		return nil, fmt.Errorf("file: resolve predicate: %w", err)
	}
	return f.objects(subject, p)
}

func (f *File) subjects(predicate, object term.Term) ([]term.Term, error) {
	return f.Lookup(statement.New(term.Term{}, predicate, object, term.Term{}),
		statement.Order{statement.Predicate, statement.Object}, statement.Subject)
}

func (f *File) objects(subject, predicate term.Term) ([]term.Term, error) {
	return f.Lookup(statement.New(subject, predicate, term.Term{}, term.Term{}),
		statement.Order{statement.Subject, statement.Predicate}, statement.Object)
}

// convert keeps the terms that conv accepts.
func convert[T any](terms []term.Term, conv func(term.Term) (T, error)) []T {
	out := make([]T, 0, len(terms))
	for _, t := range terms {
		if v, err := conv(t); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func lookupTyped[T any](f *File, subject term.Term, predicate string, conv func(term.Term) (T, error)) ([]T, error) {
	objs, err := f.LookupObjects(subject, predicate)
	if err != nil {
		return nil, err
	}
	return convert(objs, conv), nil
}

// LookupIntegers returns the xsd:integer objects of subject for predicate.
// Objects of other types are skipped.
func (f *File) LookupIntegers(subject term.Term, predicate string) ([]int64, error) {
	return lookupTyped(f, subject, predicate, term.Term.AsInteger)
}

// LookupDoubles returns the numeric objects of subject for predicate.
func (f *File) LookupDoubles(subject term.Term, predicate string) ([]float64, error) {
	return lookupTyped(f, subject, predicate, term.Term.AsDouble)
}

// LookupDates returns the xsd:dateTime objects of subject for predicate.
func (f *File) LookupDates(subject term.Term, predicate string) ([]time.Time, error) {
	return lookupTyped(f, subject, predicate, term.Term.AsDate)
}

// LookupStrings returns the string objects of subject for predicate,
// language-tagged ones included.
func (f *File) LookupStrings(subject term.Term, predicate string) ([]string, error) {
	return lookupTyped(f, subject, predicate, term.Term.AsString)
}
