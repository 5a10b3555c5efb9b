package file

import (
	"cmp"
	"slices"
	"sort"

	"github.com/cwbudde/algo-adf/adf/statement"
	"github.com/cwbudde/algo-adf/adf/term"
)

// permutations has one order starting with each subset of fixed slots.
var permutations = []string{"SPOG", "POGS", "OGSP", "GSPO", "OSGP", "GPSO"}

// index is a permutation of the log, sorted on demand.
type index struct {
	order statement.Order
	pos   [4]int
	rows  []int
	dirty bool
}

func newIndices() []*index {
	out := make([]*index, len(permutations))
	for i, name := range permutations {
		ix := &index{order: statement.MustParseOrder(name)}
		for j, k := range ix.order {
			ix.pos[j] = slot(k)
		}
		out[i] = ix
	}
	return out
}

func (ix *index) add(row int) {
	ix.rows = append(ix.rows, row)
	ix.dirty = true
}

// slot returns the position of k in a quad, or -1.
func slot(k statement.Key) int {
	switch k {
	case statement.Subject:
		return 0
	case statement.Predicate:
		return 1
	case statement.Object:
		return 2
	case statement.Graph:
		return 3
	}
	return -1
}

func (f *File) compareHandles(a, b uint32) int {
	if a == b {
		return 0
	}
	return term.Compare(f.terms[a], f.terms[b])
}

func (f *File) sorted(ix *index) []int {
	if ix.dirty {
		slices.SortFunc(ix.rows, func(a, b int) int {
			qa, qb := f.log[a].quad, f.log[b].quad
			for _, p := range ix.pos {
				if c := f.compareHandles(qa[p], qb[p]); c != 0 {
					return c
				}
			}
			return cmp.Compare(a, b)
		})
		ix.dirty = false
	}
	return ix.rows
}

// choose returns the index whose leading slots are exactly the fixed ones.
func (f *File) choose(fixed [4]bool) (*index, int) {
	n := 0
	for _, v := range fixed {
		if v {
			n++
		}
	}
	for _, ix := range f.indices {
		ok := true
		for _, p := range ix.pos[:n] {
			if !fixed[p] {
				ok = false
				break
			}
		}
		if ok {
			return ix, n
		}
	}
	panic("file: no index for fixed slots")
}

// scan returns the log rows whose fixed slots equal prefix, in index order.
func (f *File) scan(prefix quad, fixed [4]bool, history bool) []int {
	ix, n := f.choose(fixed)
	rows := f.sorted(ix)
	keys := ix.pos[:n]

	comparePrefix := func(row int) int {
		q := f.log[row].quad
		for _, p := range keys {
			if c := f.compareHandles(q[p], prefix[p]); c != 0 {
				return c
			}
		}
		return 0
	}

	var out []int
	for i := sort.Search(len(rows), func(i int) bool { return comparePrefix(rows[i]) >= 0 }); i < len(rows); i++ {
		row := rows[i]
		if comparePrefix(row) != 0 {
			break
		}
		if history || f.active(row) {
			out = append(out, row)
		}
	}
	return out
}

// patternQuad converts the present slots of pattern to handles. It reports
// false when a present term was never interned, in which case nothing can
// match.
func (f *File) patternQuad(pattern *statement.Statement) (quad, [4]bool, bool) {
	var (
		q     quad
		fixed [4]bool
	)
	for _, k := range statement.SPOG {
		t, ok := pattern.Get(k)
		if !ok {
			continue
		}
		h, known := f.handle(t)
		if !known {
			return q, fixed, false
		}
		p := slot(k)
		q[p], fixed[p] = h, true
	}
	return q, fixed, true
}

func (f *File) statementAt(row int) *statement.Statement {
	r := f.log[row]
	s, p, o, g := f.terms[r.quad[0]], f.terms[r.quad[1]], f.terms[r.quad[2]], f.terms[r.quad[3]]
	if r.hasDeleted {
		return statement.NewDeleted(s, p, o, g, msTime(r.deleted))
	}
	return statement.New(s, p, o, g)
}
