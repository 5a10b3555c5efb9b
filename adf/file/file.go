package file

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-adf/adf/statement"
	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/adf/vocab"
)

// File is an annotated data file held in memory. It is not safe for
// concurrent use; callers sharing a File must serialize access.
type File struct {
	logger   *slog.Logger
	resolver vocab.Resolver
	now      func() time.Time

	// terms[0] is the absent term, so handle 0 means "absent".
	terms   []term.Term
	handles map[term.Term]uint32

	log     []record
	latest  map[quad]int
	indices []*index

	points   int
	channels int
	samples  []float64
}

// quad holds term handles in subject, predicate, object, graph order.
type quad [4]uint32

type record struct {
	quad       quad
	deleted    int64
	hasDeleted bool
}

// Option configures a File.
type Option func(*File)

// WithLogger sets the logger used for debug events. A nil logger selects
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithResolver sets the policy turning predicate names into terms for
// LookupSubjects, LookupObjects and the typed lookups. The default is
// vocab.Identity.
func WithResolver(r vocab.Resolver) Option {
	return func(f *File) {
		if r != nil {
			f.resolver = r
		}
	}
}

// WithClock sets the time source used to date the tombstones written when
// channel or recording metadata is replaced.
func WithClock(now func() time.Time) Option {
	return func(f *File) {
		if now != nil {
			f.now = now
		}
	}
}

// New returns an empty file.
func New(opts ...Option) *File {
	f := &File{
		logger:   slog.Default(),
		resolver: vocab.Identity{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.reset()
	return f
}

func (f *File) reset() {
	f.terms = []term.Term{{}}
	f.handles = make(map[term.Term]uint32)
	f.log = nil
	f.latest = make(map[quad]int)
	f.indices = newIndices()
	f.points, f.channels, f.samples = 0, 0, nil
}

func (f *File) intern(t term.Term) uint32 {
	if t.IsAbsent() {
		return 0
	}
	if h, ok := f.handles[t]; ok {
		return h
	}
	h := uint32(len(f.terms))
	f.terms = append(f.terms, t)
	f.handles[t] = h
	return h
}

// handle returns the handle of an interned term. The absent term is always
// known.
func (f *File) handle(t term.Term) (uint32, bool) {
	if t.IsAbsent() {
		return 0, true
	}
	h, ok := f.handles[t]
	return h, ok
}

func (f *File) append(r record) {
	i := len(f.log)
	f.log = append(f.log, r)
	f.latest[r.quad] = i
	for _, ix := range f.indices {
		ix.add(i)
	}
}

// active reports whether log entry i is the latest record of its quad and
// carries no deletion date.
func (f *File) active(i int) bool {
	r := f.log[i]
	return !r.hasDeleted && f.latest[r.quad] == i
}

// Insert appends st to the log. Subject, predicate and object are required;
// the graph is optional. A statement carrying a deletion date is a
// tombstone for its quad.
func (f *File) Insert(st *statement.Statement) error {
	s, okS := st.Subject()
	p, okP := st.Predicate()
	o, okO := st.Object()
	if !okS || !okP || !okO {
		return fmt.Errorf("%w: %s", ErrIncompleteStatement, st)
	}
	g, _ := st.Graph()

	r := record{quad: quad{f.intern(s), f.intern(p), f.intern(o), f.intern(g)}}
	if d, ok := st.DeletionDate(); ok {
		r.deleted, r.hasDeleted = d.UnixMilli(), true
	}
	f.append(r)
	return nil
}

func (f *File) insert(s, p, o term.Term) {
	f.append(record{quad: quad{f.intern(s), f.intern(p), f.intern(o), 0}})
}

// Delete marks every active statement matching pattern as deleted at the
// given time and returns how many were affected. Absent pattern slots match
// anything.
func (f *File) Delete(pattern *statement.Statement, at time.Time) (int, error) {
	prefix, fixed, ok := f.patternQuad(pattern)
	if !ok {
		return 0, nil
	}
	rows := f.scan(prefix, fixed, false)
	ms := at.UnixMilli()
	for _, row := range rows {
		f.append(record{quad: f.log[row].quad, deleted: ms, hasDeleted: true})
	}
	if len(rows) > 0 {
		f.logger.Debug("deleted statements", "pattern", pattern.String(), "count", len(rows), "at", at)
	}
	return len(rows), nil
}

func (f *File) deleteAll(s, p, o term.Term) {
	_, _ = f.Delete(statement.New(s, p, o, term.Term{}), f.now())
}

// Stats summarizes a file.
type Stats struct {
	Terms    int
	Records  int
	Active   int
	Points   int
	Channels int
}

// Stats returns the size of the term table, the log and the active set and
// the dimensions of the sample matrix.
func (f *File) Stats() Stats {
	active := 0
	for _, i := range f.latest {
		if !f.log[i].hasDeleted {
			active++
		}
	}
	return Stats{
		Terms:    len(f.terms) - 1,
		Records:  len(f.log),
		Active:   active,
		Points:   f.points,
		Channels: f.channels,
	}
}
