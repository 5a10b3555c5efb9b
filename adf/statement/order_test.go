package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-adf/adf/term"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{in: "SPOG", want: SPOG},
		{in: "S", want: Order{Subject}},
		{in: "OG", want: Order{Object, Graph}},
		{in: "", want: Order{}},
		{in: "SPX", wantErr: true},
		{in: "SS", wantErr: true},
		{in: "spog", wantErr: true},
		{in: "SPOGS", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidOrder, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
	assert.Panics(t, func() { MustParseOrder("Q") })
}

func TestMaskedCompare(t *testing.T) {
	stA := New(a, b, e, term.Term{})
	stB := New(a, c, d, term.Term{})

	assert.NotZero(t, Compare(stA, stB, MustParseOrder("SPOG")))
	assert.Zero(t, Compare(stA, stA, MustParseOrder("SPOG")))
	assert.Zero(t, Compare(stA, stB, MustParseOrder("S")))

	assert.Negative(t, Compare(stA, stB, MustParseOrder("SP")))
	assert.Positive(t, Compare(stB, stA, MustParseOrder("SP")))

	assert.Positive(t, Compare(stA, stB, MustParseOrder("SO")))
	assert.Negative(t, Compare(stB, stA, MustParseOrder("SO")))
}

func TestCompareAbsentSortsFirst(t *testing.T) {
	withGraph := New(a, b, c, g)
	without := New(a, b, c, term.Term{})
	assert.Negative(t, Compare(without, withGraph, SPOG))
	assert.Zero(t, Compare(without, withGraph, SPO))
}

func TestCompareIgnoresDeletionDate(t *testing.T) {
	live := New(a, b, c, term.Term{})
	dead := NewDeleted(a, b, c, term.Term{}, time.Now())
	assert.Zero(t, Compare(live, dead, SPOG))
	assert.False(t, live.Equal(dead))
}
