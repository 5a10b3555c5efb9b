package file

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/adf/vocab"
)

var matrix = []float64{
	0.6062011, 0.6326078,
	-2.7099204, -0.2362881,
	-0.6014201, -0.1521410,
	0.4972079, -1.0824288,
}

func withMatrix(t *testing.T) *File {
	t.Helper()
	f := New()
	require.NoError(t, f.SetSamples(4, 2, matrix))
	return f
}

func TestSamplesClamping(t *testing.T) {
	f := withMatrix(t)

	tests := []struct {
		name                  string
		channel, start, count int
		want                  []float64
	}{
		{"whole channel", 0, 0, 4, []float64{0.6062011, -2.7099204, -0.6014201, 0.4972079}},
		{"clamped count", 1, 2, 5, []float64{-0.1521410, -1.0824288}},
		{"zero count", 1, 2, 0, []float64{}},
		{"start at end", 0, 4, 3, []float64{}},
		{"start past end", 1, 100, 3, []float64{}},
		{"middle", 1, 1, 2, []float64{-0.2362881, -0.1521410}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, channels, values, err := f.Samples(tt.channel, tt.start, tt.count)
			require.NoError(t, err)
			assert.Equal(t, 4, points)
			assert.Equal(t, 2, channels)
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestSamplesErrors(t *testing.T) {
	f := withMatrix(t)

	for _, channel := range []int{-1, 2, 10} {
		points, channels, _, err := f.Samples(channel, 0, 1)
		assert.ErrorIs(t, err, ErrChannelOutOfRange)
		assert.Equal(t, 4, points)
		assert.Equal(t, 2, channels)
	}
	_, _, _, err := f.Samples(0, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, _, _, err = f.Samples(0, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, _, err = New().Samples(0, 0, 1)
	assert.ErrorIs(t, err, ErrChannelOutOfRange)
}

func TestSetSamplesDimensionMismatch(t *testing.T) {
	f := withMatrix(t)

	assert.ErrorIs(t, f.SetSamples(3, 2, matrix), ErrDimensionMismatch)
	assert.ErrorIs(t, f.SetSamples(-4, -2, matrix), ErrDimensionMismatch)
	assert.ErrorIs(t, f.SetSamples(math.MaxInt, 2, matrix), ErrDimensionMismatch)

	points, channels := f.Dimensions()
	assert.Equal(t, 4, points)
	assert.Equal(t, 2, channels)
}

func TestSetSamplesCopies(t *testing.T) {
	values := []float64{1, 2, 3}
	f := New()
	require.NoError(t, f.SetSamples(3, 1, values))
	values[0] = 99

	got, err := f.Channel(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, got)

	require.NoError(t, f.SetSamples(0, 0, nil))
	points, channels := f.Dimensions()
	assert.Zero(t, points)
	assert.Zero(t, channels)
}

func TestChannelIdentifiers(t *testing.T) {
	f := withMatrix(t)

	id0, err := f.ChannelIdentifier(0)
	require.NoError(t, err)
	id1, err := f.ChannelIdentifier(1)
	require.NoError(t, err)
	assert.Equal(t, term.NamedNode("#channel-0"), id0)
	assert.Equal(t, ChannelName(1), id1)

	col, err := f.ChannelColumn(id1)
	require.NoError(t, err)
	assert.Equal(t, 1, col)

	channels, err := f.LookupObjects(term.NamedNode(""), vocab.HasChannel.Value())
	require.NoError(t, err)
	assert.ElementsMatch(t, []term.Term{id0, id1}, channels)

	_, err = f.ChannelIdentifier(2)
	assert.ErrorIs(t, err, ErrNoChannel)
	_, err = f.ChannelIdentifier(-1)
	assert.ErrorIs(t, err, ErrChannelOutOfRange)
	_, err = f.ChannelColumn(term.NamedNode("nobody"))
	assert.ErrorIs(t, err, ErrNoChannel)

	// A new matrix renames every column and retires the old identifiers.
	custom := term.NamedNode("#fp1")
	require.NoError(t, f.SetChannelIdentifier(0, custom))
	require.NoError(t, f.SetSamples(1, 1, []float64{1}))
	fresh, err := f.ChannelIdentifier(0)
	require.NoError(t, err)
	assert.Equal(t, id0, fresh)
	_, err = f.ChannelColumn(custom)
	assert.ErrorIs(t, err, ErrNoChannel)
	_, err = f.ChannelColumn(id1)
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestSetChannelIdentifier(t *testing.T) {
	f := withMatrix(t)
	old, err := f.ChannelIdentifier(1)
	require.NoError(t, err)

	fp2 := vocab.Lyto("channel-fp2")
	require.NoError(t, f.SetChannelIdentifier(1, fp2))

	got, err := f.ChannelIdentifier(1)
	require.NoError(t, err)
	assert.Equal(t, fp2, got)
	_, err = f.ChannelColumn(old)
	assert.ErrorIs(t, err, ErrNoChannel)

	// Moving the identifier to another column leaves a single column.
	require.NoError(t, f.SetChannelIdentifier(0, fp2))
	col, err := f.ChannelColumn(fp2)
	require.NoError(t, err)
	assert.Equal(t, 0, col)
	_, err = f.ChannelIdentifier(1)
	assert.ErrorIs(t, err, ErrNoChannel)

	assert.Error(t, f.SetChannelIdentifier(0, term.Term{}))
	assert.Error(t, f.SetChannelIdentifier(0, term.Integer(1)))
	assert.ErrorIs(t, f.SetChannelIdentifier(-1, fp2), ErrChannelOutOfRange)
}

func TestChannelTypes(t *testing.T) {
	f := withMatrix(t)
	id0, err := f.ChannelIdentifier(0)
	require.NoError(t, err)
	id1, err := f.ChannelIdentifier(1)
	require.NoError(t, err)

	fp1, fp2, eeg := vocab.Lyto("Fp1"), vocab.Lyto("Fp2"), vocab.Lyto("EEG")
	require.NoError(t, f.AddChannelType(id0, fp1))
	require.NoError(t, f.AddChannelType(id0, eeg))
	require.NoError(t, f.AddChannelType(id1, fp2))
	require.NoError(t, f.AddChannelType(id1, eeg))

	types, err := f.ChannelTypes(id0)
	require.NoError(t, err)
	assert.Equal(t, []term.Term{eeg, fp1}, types)

	columns, err := f.ChannelsByType(fp2)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, columns)

	columns, err = f.ChannelsByType(eeg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, columns)

	columns, err = f.ChannelsByType(vocab.Lyto("Cz"))
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestRecordingTime(t *testing.T) {
	f := New()
	_, _, err := f.Time(0)
	assert.ErrorIs(t, err, ErrNoRecordingTime)

	start := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.SetTime(start, 256))

	at, sfreq, err := f.Time(512)
	require.NoError(t, err)
	assert.Equal(t, 256.0, sfreq)
	assert.True(t, at.Equal(start.Add(2*time.Second)), "got %v", at)

	at, _, err = f.Time(64)
	require.NoError(t, err)
	assert.True(t, at.Equal(start.Add(250*time.Millisecond)), "got %v", at)

	// Replacing keeps a single value of each.
	require.NoError(t, f.SetTime(start.Add(time.Hour), 100))
	sfreq, err = f.SamplingFrequency()
	require.NoError(t, err)
	assert.Equal(t, 100.0, sfreq)
	dates, err := f.LookupDates(term.NamedNode(""), vocab.StartDate.Value())
	require.NoError(t, err)
	assert.Len(t, dates, 1)

	assert.ErrorIs(t, f.SetTime(start, 0), ErrInvalidRange)
	assert.ErrorIs(t, f.SetTime(start, math.NaN()), ErrInvalidRange)
}
