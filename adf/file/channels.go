package file

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cwbudde/algo-adf/adf/statement"
	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/adf/vocab"
)

// ChannelIdentifier returns the term identifying a column of the sample
// matrix.
func (f *File) ChannelIdentifier(column int) (term.Term, error) {
	if column < 0 {
		return term.Term{}, fmt.Errorf("%w: column %d", ErrChannelOutOfRange, column)
	}
	ids, err := f.subjects(vocab.ColumnNumber, term.Integer(int64(column)))
	if err != nil {
		return term.Term{}, err
	}
	if len(ids) == 0 {
		return term.Term{}, fmt.Errorf("%w: column %d", ErrNoChannel, column)
	}
	return ids[0], nil
}

// SetChannelIdentifier makes id the identifier of a column, retiring the
// previous identifier of that column and any other column of id.
func (f *File) SetChannelIdentifier(column int, id term.Term) error {
	if column < 0 {
		return fmt.Errorf("%w: column %d", ErrChannelOutOfRange, column)
	}
	if id.IsAbsent() || id.IsLiteral() {
		return fmt.Errorf("%w: channel identifier %q", ErrIncompleteStatement, id)
	}

	number := term.Integer(int64(column))
	f.deleteAll(term.Term{}, vocab.ColumnNumber, number)
	f.deleteAll(id, vocab.ColumnNumber, term.Term{})
	f.insert(id, vocab.ColumnNumber, number)
	if !f.has(document, vocab.HasChannel, id) {
		f.insert(document, vocab.HasChannel, id)
	}
	return nil
}

func (f *File) has(s, p, o term.Term) bool {
	return len(f.LookupStatements(statement.New(s, p, o, term.Term{}))) > 0
}

// ChannelColumn returns the column of the channel identified by id.
func (f *File) ChannelColumn(id term.Term) (int, error) {
	objs, err := f.objects(id, vocab.ColumnNumber)
	if err != nil {
		return 0, err
	}
	for _, o := range objs {
		if n, err := o.AsInteger(); err == nil && n >= 0 && n <= math.MaxInt32 {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s has no column", ErrNoChannel, id)
}

// AddChannelType records that the channel id is of type typ (rdf:type).
func (f *File) AddChannelType(id, typ term.Term) error {
	return f.Insert(statement.New(id, vocab.Type, typ, term.Term{}))
}

// ChannelTypes returns the types of the channel id.
func (f *File) ChannelTypes(id term.Term) ([]term.Term, error) {
	return f.objects(id, vocab.Type)
}

// ChannelsByType returns, in increasing order, the columns whose identifier
// has type typ.
func (f *File) ChannelsByType(typ term.Term) ([]int, error) {
	ids, err := f.subjects(vocab.Type, typ)
	if err != nil {
		return nil, err
	}
	var columns []int
	for _, id := range ids {
		column, err := f.ChannelColumn(id)
		if err != nil {
			continue
		}
		if column < f.channels {
			columns = append(columns, column)
		}
	}
	slices.Sort(columns)
	return slices.Compact(columns), nil
}

// SetTime records when the recording started and its sampling frequency in
// Hz, replacing earlier values.
func (f *File) SetTime(start time.Time, samplingFrequency float64) error {
	if !(samplingFrequency > 0) || math.IsInf(samplingFrequency, 0) {
		return fmt.Errorf("%w: sampling frequency %g", ErrInvalidRange, samplingFrequency)
	}
	f.deleteAll(document, vocab.StartDate, term.Term{})
	f.deleteAll(document, vocab.SamplingFrequency, term.Term{})
	f.insert(document, vocab.StartDate, term.Date(start))
	f.insert(document, vocab.SamplingFrequency, term.Double(samplingFrequency))
	return nil
}

// Time returns the instant of an observation (a point index) and the
// sampling frequency of the recording.
func (f *File) Time(observation int) (time.Time, float64, error) {
	starts, err := f.objects(document, vocab.StartDate)
	if err != nil {
		return time.Time{}, 0, err
	}
	rates, err := f.objects(document, vocab.SamplingFrequency)
	if err != nil {
		return time.Time{}, 0, err
	}
	dates, freqs := convert(starts, term.Term.AsDate), convert(rates, term.Term.AsDouble)
	if len(dates) == 0 || len(freqs) == 0 || !(freqs[0] > 0) {
		return time.Time{}, 0, ErrNoRecordingTime
	}

	sfreq := freqs[0]
	offset := time.Duration(math.Round(float64(observation) / sfreq * float64(time.Second)))
	return dates[0].Add(offset), sfreq, nil
}

// SamplingFrequency returns the recording's sampling frequency in Hz.
func (f *File) SamplingFrequency() (float64, error) {
	_, sfreq, err := f.Time(0)
	return sfreq, err
}
