package fir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-adf/dsp/window"
	"github.com/cwbudde/algo-adf/internal/testutil"
)

func TestBandpassOrder(t *testing.T) {
	tests := []struct {
		sampleRate, transition float64
		want                   int
	}{
		{256, 0.5, 2049},
		{100, 1, 401},
		{1000, 3, 1335},
		{100, 1000, 9},
		{100, 60, 9},
	}

	for _, tt := range tests {
		bp, err := NewBandpass(tt.sampleRate, tt.transition)
		if err != nil {
			t.Fatalf("NewBandpass(%g, %g): %v", tt.sampleRate, tt.transition, err)
		}
		if got := bp.Order(); got != tt.want {
			t.Errorf("Order(%g, %g): got %d, want %d", tt.sampleRate, tt.transition, got, tt.want)
		}
		if got := AutoOrder(tt.sampleRate, tt.transition); got != tt.want {
			t.Errorf("AutoOrder(%g, %g): got %d, want %d", tt.sampleRate, tt.transition, got, tt.want)
		}

		again, _ := NewBandpass(tt.sampleRate, tt.transition)
		if again.Order() != bp.Order() {
			t.Errorf("Order not deterministic: %d vs %d", again.Order(), bp.Order())
		}
	}
}

func TestNewBandpassInvalid(t *testing.T) {
	for _, tt := range [][2]float64{{0, 1}, {-1, 1}, {100, 0}, {100, -2}, {math.NaN(), 1}, {100, math.Inf(1)}} {
		if _, err := NewBandpass(tt[0], tt[1]); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewBandpass(%g, %g): got %v, want ErrInvalidParameter", tt[0], tt[1], err)
		}
	}
}

func TestDesignBandpassInvalid(t *testing.T) {
	bp, err := NewBandpass(100, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, band := range [][2]float64{{3, 1}, {2, 2}, {-1, 3}, {1, 60}} {
		if err := bp.DesignBandpass(band[0], band[1]); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("DesignBandpass(%g, %g): got %v, want ErrInvalidParameter", band[0], band[1], err)
		}
	}
	if bp.Designed() {
		t.Fatal("failed designs must not mark the filter designed")
	}
}

func TestApplyBeforeDesign(t *testing.T) {
	bp, err := NewBandpass(100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bp.Apply([]float64{1, 2, 3}); !errors.Is(err, ErrNotDesigned) {
		t.Fatalf("Apply: got %v, want ErrNotDesigned", err)
	}
	if _, err := bp.Filter(); !errors.Is(err, ErrNotDesigned) {
		t.Fatalf("Filter: got %v, want ErrNotDesigned", err)
	}
	if bp.Coefficients() != nil {
		t.Fatal("Coefficients before design should be nil")
	}
}

func TestBandpassCoefficientsSymmetric(t *testing.T) {
	for _, w := range []window.Type{window.TypeHamming, window.TypeHann, window.TypeBlackman, window.TypeKaiser} {
		bp, err := NewBandpass(100, 1, WithWindow(w))
		if err != nil {
			t.Fatal(err)
		}
		if err := bp.DesignBandpass(1, 3); err != nil {
			t.Fatal(err)
		}
		h := bp.Coefficients()
		if len(h) != bp.Order() {
			t.Fatalf("%s: got %d coefficients, want %d", w, len(h), bp.Order())
		}
		testutil.RequireFinite(t, h)
		for i := range h {
			if !almostEqual(h[i], h[len(h)-1-i], 1e-12) {
				t.Fatalf("%s: h[%d]=%v differs from mirror %v", w, i, h[i], h[len(h)-1-i])
			}
		}
	}
}

func TestApplyPreservesLength(t *testing.T) {
	bp, err := NewBandpass(100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.DesignBandpass(1, 3); err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{1, 10, 400, 401, 2000} {
		in := testutil.DeterministicNoise(int64(n), 1, n)
		orig := append([]float64(nil), in...)
		out, err := bp.Apply(in)
		if err != nil {
			t.Fatalf("Apply(len %d): %v", n, err)
		}
		if len(out) != n {
			t.Errorf("Apply(len %d): got length %d", n, len(out))
		}
		testutil.RequireSliceNearlyEqual(t, in, orig, 0)
	}

	out, err := bp.Apply(nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("Apply(nil): got %v, %v; want empty slice", out, err)
	}
}

func TestApplyIsCentred(t *testing.T) {
	bp, err := NewBandpass(100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.DesignBandpass(1, 3); err != nil {
		t.Fatal(err)
	}

	const pos = 600
	out, err := bp.Apply(testutil.Impulse(1201, pos))
	if err != nil {
		t.Fatal(err)
	}
	h := bp.Coefficients()
	half := len(h) / 2
	testutil.RequireSliceNearlyEqual(t, out[pos-half:pos+half+1], h, 1e-9)
	for i := range pos - half {
		if math.Abs(out[i]) > 1e-9 {
			t.Fatalf("out[%d] = %v before the response", i, out[i])
		}
	}
}

func TestBandpassResponse(t *testing.T) {
	bp, err := NewBandpass(100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.DesignBandpass(1, 3); err != nil {
		t.Fatal(err)
	}
	f, err := bp.Filter()
	if err != nil {
		t.Fatal(err)
	}

	if g := f.MagnitudeDB(2, 100); math.Abs(g) > 0.1 {
		t.Errorf("pass band gain at 2 Hz: %.3f dB", g)
	}
	for _, freq := range []float64{0, 0.2, 4, 10, 40} {
		if g := f.MagnitudeDB(freq, 100); g > -40 {
			t.Errorf("stop band gain at %g Hz: %.3f dB", freq, g)
		}
	}
}

func TestApplyPreservesZeroCrossings(t *testing.T) {
	const (
		sampleRate = 100.0
		length     = 6000
	)
	slow := make([]float64, length)
	fast := make([]float64, length)
	for n := range slow {
		slow[n] = math.Sin(2*math.Pi*2*float64(n)/sampleRate + 0.3)
		fast[n] = math.Sin(2*math.Pi*4*float64(n)/sampleRate + 1.1)
	}
	mixed := testutil.Mix(slow, fast)

	bp, err := NewBandpass(sampleRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.DesignBandpass(1, 3); err != nil {
		t.Fatal(err)
	}
	out, err := bp.Apply(mixed)
	if err != nil {
		t.Fatal(err)
	}

	edge := bp.Order() / 2
	want := testutil.ZeroCrossings(slow[edge : length-edge])
	got := testutil.ZeroCrossings(out[edge : length-edge])
	if got < want-2 || got > want+2 {
		t.Fatalf("zero crossings: got %d, want %d", got, want)
	}
	residual := make([]float64, 0, length-2*edge)
	for n := edge; n < length-edge; n++ {
		residual = append(residual, out[n]-slow[n])
	}
	if rms := testutil.RMS(residual); rms > 0.05 {
		t.Fatalf("filtered signal deviates from the 2 Hz component: rms %g", rms)
	}
}

func TestAutoBandwidth(t *testing.T) {
	tests := []struct {
		sampleRate, low, high, want float64
	}{
		{100, 1, 3, 1},
		{1000, 20, 100, 5},
		{256, 10, 127, 1},
		{256, 0, 30, 7.5},
		{256, 30, 128, 7.5},
		{256, 0, 128, 2},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := AutoBandwidth(tt.sampleRate, tt.low, tt.high); !almostEqual(got, tt.want, 1e-12) {
			t.Errorf("AutoBandwidth(%g, %g, %g): got %g, want %g", tt.sampleRate, tt.low, tt.high, got, tt.want)
		}
	}
}

func TestLowpassAndHighpassEdges(t *testing.T) {
	tests := []struct {
		name       string
		low, high  float64
		pass, stop []float64
	}{
		{"lowpass", 0, 30, []float64{0, 10, 20}, []float64{45, 80, 128}},
		{"highpass", 30, 128, []float64{60, 100, 128}, []float64{0, 5, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp, err := NewBandpass(256, AutoBandwidth(256, tt.low, tt.high))
			if err != nil {
				t.Fatalf("NewBandpass: %v", err)
			}
			if err := bp.DesignBandpass(tt.low, tt.high); err != nil {
				t.Fatalf("DesignBandpass: %v", err)
			}
			f, _ := bp.Filter()
			for _, freq := range tt.pass {
				if g := f.MagnitudeDB(freq, 256); math.Abs(g) > 0.1 {
					t.Errorf("%g Hz: gain %.3f dB, want 0", freq, g)
				}
			}
			for _, freq := range tt.stop {
				if g := f.MagnitudeDB(freq, 256); g > -40 {
					t.Errorf("%g Hz: gain %.3f dB, want < -40", freq, g)
				}
			}
		})
	}
}

func TestCausalApplyLagsCentred(t *testing.T) {
	signal := testutil.DeterministicNoise(7, 1, 400)

	centred, err := NewBandpass(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	causal, err := NewBandpass(100, 10, WithCausal())
	if err != nil {
		t.Fatal(err)
	}
	for _, bp := range []*Bandpass{centred, causal} {
		if err := bp.DesignBandpass(5, 20); err != nil {
			t.Fatal(err)
		}
	}

	want, err := centred.Apply(signal)
	if err != nil {
		t.Fatal(err)
	}
	// Applying twice must not carry state over.
	for range 2 {
		got, err := causal.Apply(signal)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(signal) {
			t.Fatalf("len=%d, want %d", len(got), len(signal))
		}
		half := causal.Order() / 2
		for n := half; n < len(got); n++ {
			if !almostEqual(got[n], want[n-half], 1e-9) {
				t.Fatalf("sample %d: got %v, want %v", n, got[n], want[n-half])
			}
		}
	}
}
