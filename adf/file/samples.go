package file

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/adf/vocab"
)

// document is the subject of recording-level metadata.
var document = term.NamedNode("")

// ChannelName returns the identifier SetSamples gives to a column.
func ChannelName(column int) term.Term {
	return term.NamedNode("#channel-" + strconv.Itoa(column))
}

// SetSamples replaces the sample matrix. values holds points × channels
// numbers in point-major order and is copied.
//
// Column i is identified by <#channel-i>, linked to the document with
// lyto:has-channel and carrying its lyto:column-number. Identifiers of the
// previous matrix are retired first; types attached to an identifier stay.
func (f *File) SetSamples(points, channels int, values []float64) error {
	if points < 0 || channels < 0 {
		return fmt.Errorf("%w: %d points × %d channels", ErrDimensionMismatch, points, channels)
	}
	if channels != 0 && points > math.MaxInt/channels || len(values) != points*channels {
		return fmt.Errorf("%w: %d values for %d points × %d channels",
			ErrDimensionMismatch, len(values), points, channels)
	}

	f.points, f.channels = points, channels
	f.samples = append([]float64(nil), values...)

	f.deleteAll(document, vocab.HasChannel, term.Term{})
	f.deleteAll(term.Term{}, vocab.ColumnNumber, term.Term{})
	for i := range channels {
		id := ChannelName(i)
		f.insert(document, vocab.HasChannel, id)
		f.insert(id, vocab.ColumnNumber, term.Integer(int64(i)))
	}

	f.logger.Debug("replaced samples", "points", points, "channels", channels)
	return nil
}

// Dimensions returns the number of points and channels of the sample matrix.
func (f *File) Dimensions() (points, channels int) {
	return f.points, f.channels
}

// Samples returns up to count values of one channel starting at point start,
// along with the matrix dimensions. The range is clamped to the available
// points: a start at or past the end yields no values. Negative start or
// count are rejected with ErrInvalidRange; a channel outside the matrix with
// ErrChannelOutOfRange.
func (f *File) Samples(channel, start, count int) (points, channels int, values []float64, err error) {
	points, channels = f.points, f.channels
	if channel < 0 || channel >= channels {
		return points, channels, nil, fmt.Errorf("%w: channel %d of %d", ErrChannelOutOfRange, channel, channels)
	}
	if start < 0 || count < 0 {
		return points, channels, nil, fmt.Errorf("%w: start %d, count %d", ErrInvalidRange, start, count)
	}

	n := min(count, max(0, points-start))
	values = make([]float64, n)
	for j := range values {
		values[j] = f.samples[(start+j)*channels+channel]
	}
	return points, channels, values, nil
}

// Channel returns every value of one channel.
func (f *File) Channel(channel int) ([]float64, error) {
	_, _, values, err := f.Samples(channel, 0, f.points)
	return values, err
}
