// Package process filters the channels of an annotated data file.
//
// A channel is selected by type (an rdf:type of its identifier), and the
// recording's sampling frequency is read from the file metadata. The
// bandpass transition bandwidth and length are chosen automatically from
// the pass band.
package process

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/cwbudde/algo-adf/adf/file"
	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/dsp/filter/fir"
)

// ErrAmbiguousChannel is returned when more than one channel has the
// requested type.
var ErrAmbiguousChannel = errors.New("process: several channels have this type")

// Processor holds one filtered channel.
type Processor struct {
	channelType term.Term
	low, high   float64
	column      int
	order       int
	filtered    []float64
}

// NewProcessor finds the single channel of type channelType in f and filters
// it to the band [low, high] Hz.
func NewProcessor(f *file.File, channelType term.Term, low, high float64, opts ...fir.Option) (*Processor, error) {
	columns, err := f.ChannelsByType(channelType)
	if err != nil {
		return nil, err
	}
	switch len(columns) {
	case 0:
		return nil, fmt.Errorf("process: channel of type %s: %w", channelType, file.ErrNoChannel)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s has columns %v", ErrAmbiguousChannel, channelType, columns)
	}

	sfreq, err := f.SamplingFrequency()
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	bp, err := fir.NewBandpass(sfreq, fir.AutoBandwidth(sfreq, low, high), opts...)
	if err != nil {
		return nil, fmt.Errorf("process: band [%g, %g] at %g Hz: %w", low, high, sfreq, err)
	}
	if err := bp.DesignBandpass(low, high); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	raw, err := f.Channel(columns[0])
	if err != nil {
		return nil, err
	}
	filtered, err := bp.Apply(raw)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	return &Processor{
		channelType: channelType,
		low:         low,
		high:        high,
		column:      columns[0],
		order:       bp.Order(),
		filtered:    filtered,
	}, nil
}

// FilterChannel returns the whole channel of type channelType filtered to
// [low, high] Hz.
func FilterChannel(f *file.File, channelType term.Term, low, high float64, opts ...fir.Option) ([]float64, error) {
	p, err := NewProcessor(f, channelType, low, high, opts...)
	if err != nil {
		return nil, err
	}
	return p.filtered, nil
}

// Column returns the matrix column the processor reads.
func (p *Processor) Column() int { return p.column }

// Order returns the number of taps of the filter used.
func (p *Processor) Order() int { return p.order }

// Len returns the number of filtered points.
func (p *Processor) Len() int { return len(p.filtered) }

// CanServe reports whether p holds the given channel type and band.
func (p *Processor) CanServe(channelType term.Term, low, high float64) bool {
	return p.channelType == channelType && p.low == low && p.high == high
}

// Get returns a copy of up to length filtered points starting at start,
// clamped to the channel.
func (p *Processor) Get(start, length int) []float64 {
	start = min(max(start, 0), len(p.filtered))
	end := min(start+max(length, 0), len(p.filtered))
	return append([]float64{}, p.filtered[start:end]...)
}

// Group caches the most recently used processors of one file. It is safe
// for concurrent use; the file is only read while the group lock is held, so
// writers to the file must hold it too, see Lock.
type Group struct {
	mu    sync.Mutex
	file  *file.File
	opts  []fir.Option
	cache *lru.Cache
}

type band struct {
	channelType term.Term
	low, high   float64
}

// NewGroup returns a cache of at most capacity processors over f.
func NewGroup(f *file.File, capacity int, opts ...fir.Option) *Group {
	return &Group{file: f, opts: opts, cache: lru.New(max(capacity, 1))}
}

// Lock acquires the group lock. Callers mutating the file while the group is
// in use must hold it, and call Invalidate before releasing it if the
// samples or the channel metadata changed.
func (g *Group) Lock() { g.mu.Lock() }

// Unlock releases the group lock.
func (g *Group) Unlock() { g.mu.Unlock() }

// Invalidate drops every cached processor. The group lock must be held.
func (g *Group) Invalidate() { g.cache.Clear() }

// Get returns filtered points of the channel of type channelType, building
// and caching a processor on first use.
func (g *Group) Get(channelType term.Term, low, high float64, start, length int) ([]float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := band{channelType, low, high}
	if v, ok := g.cache.Get(key); ok {
		return v.(*Processor).Get(start, length), nil
	}

	p, err := NewProcessor(g.file, channelType, low, high, g.opts...)
	if err != nil {
		return nil, err
	}
	g.cache.Add(key, p)
	return p.Get(start, length), nil
}

// Cached returns the number of processors held.
func (g *Group) Cached() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cache.Len()
}
