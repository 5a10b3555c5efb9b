package statement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cwbudde/algo-adf/adf/term"
)

// ErrInvalidPatch is returned by Set when a patch cannot be applied.
var ErrInvalidPatch = errors.New("statement: invalid patch")

// Statement is a quad with an optional deletion date.
type Statement struct {
	subject, predicate, object, graph term.Term

	deleted    time.Time
	hasDeleted bool
}

// New returns an active statement. Absent terms leave slots unconstrained.
func New(subject, predicate, object, graph term.Term) *Statement {
	return &Statement{subject: subject, predicate: predicate, object: object, graph: graph}
}

// NewDeleted returns a statement deleted at the given time.
func NewDeleted(subject, predicate, object, graph term.Term, at time.Time) *Statement {
	st := New(subject, predicate, object, graph)
	st.deleted, st.hasDeleted = truncate(at), true
	return st
}

// truncate keeps millisecond resolution, the precision a file stores.
func truncate(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}

// Copy returns an independent statement with the same slots.
func (s *Statement) Copy() *Statement {
	c := *s
	return &c
}

// Set patches the five slots. Every patch is checked before any slot is
// changed; on error the statement is left untouched.
func (s *Statement) Set(subject, predicate, object, graph Patch[term.Term], deletion Patch[time.Time]) error {
	terms := [...]struct {
		key   Key
		patch Patch[term.Term]
		slot  *term.Term
	}{
		{Subject, subject, &s.subject},
		{Predicate, predicate, &s.predicate},
		{Object, object, &s.object},
		{Graph, graph, &s.graph},
	}
	for _, t := range terms {
		switch t.patch.op {
		case OpKeep, OpClear:
		case OpSet:
			if t.patch.value.IsAbsent() {
				return fmt.Errorf("%w: set %s to the absent term", ErrInvalidPatch, t.key)
			}
		default:
			return fmt.Errorf("%w: %s op %d", ErrInvalidPatch, t.key, t.patch.op)
		}
	}
	switch deletion.op {
	case OpKeep, OpClear:
	case OpSet:
		if deletion.value.IsZero() {
			return fmt.Errorf("%w: set deletion date to the zero time", ErrInvalidPatch)
		}
	default:
		return fmt.Errorf("%w: deletion date op %d", ErrInvalidPatch, deletion.op)
	}

	for _, t := range terms {
		switch t.patch.op {
		case OpClear:
			*t.slot = term.Term{}
		case OpSet:
			*t.slot = t.patch.value
		}
	}
	switch deletion.op {
	case OpClear:
		s.deleted, s.hasDeleted = time.Time{}, false
	case OpSet:
		s.deleted, s.hasDeleted = truncate(deletion.value), true
	}
	return nil
}

func present(t term.Term) (term.Term, bool) {
	return t, !t.IsAbsent()
}

// Subject returns the subject and whether it is present.
func (s *Statement) Subject() (term.Term, bool) { return present(s.subject) }

// Predicate returns the predicate and whether it is present.
func (s *Statement) Predicate() (term.Term, bool) { return present(s.predicate) }

// Object returns the object and whether it is present.
func (s *Statement) Object() (term.Term, bool) { return present(s.object) }

// Graph returns the graph and whether it is present.
func (s *Statement) Graph() (term.Term, bool) { return present(s.graph) }

// DeletionDate returns the deletion date and whether it is present.
func (s *Statement) DeletionDate() (time.Time, bool) {
	return s.deleted, s.hasDeleted
}

// Active reports whether the statement carries no deletion date.
func (s *Statement) Active() bool { return !s.hasDeleted }

// Get returns the slot named by k and whether it is present.
func (s *Statement) Get(k Key) (term.Term, bool) {
	return present(s.get(k))
}

func (s *Statement) get(k Key) term.Term {
	switch k {
	case Subject:
		return s.subject
	case Predicate:
		return s.predicate
	case Object:
		return s.object
	case Graph:
		return s.graph
	}
	return term.Term{}
}

// Equal reports whether both statements have identical slots, deletion date
// included.
func (s *Statement) Equal(other *Statement) bool {
	return s.subject == other.subject && s.predicate == other.predicate &&
		s.object == other.object && s.graph == other.graph &&
		s.hasDeleted == other.hasDeleted && s.deleted.Equal(other.deleted)
}

// Matches reports whether every present slot of pattern equals the same slot
// of s. The deletion date is ignored.
func (s *Statement) Matches(pattern *Statement) bool {
	for _, k := range SPOG {
		p := pattern.get(k)
		if !p.IsAbsent() && p != s.get(k) {
			return false
		}
	}
	return true
}

// String formats the statement in N3. Absent slots print as "?" and the
// graph is omitted when absent.
func (s *Statement) String() string {
	var sb strings.Builder
	for i, k := range SPO {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeSlot(&sb, s.get(k))
	}
	if !s.graph.IsAbsent() {
		sb.WriteByte(' ')
		sb.WriteString(s.graph.N3())
	}
	sb.WriteString(" .")
	if s.hasDeleted {
		sb.WriteString(" # deleted ")
		sb.WriteString(s.deleted.Format(time.RFC3339Nano))
	}
	return sb.String()
}

func writeSlot(sb *strings.Builder, t term.Term) {
	if t.IsAbsent() {
		sb.WriteByte('?')
		return
	}
	sb.WriteString(t.N3())
}
