package window

import (
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	types := []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
				if v < -1e-12 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d] out of [0,1]: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateEmpty(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}

	if _, err := Hann(0); err == nil {
		t.Fatal("expected error for size 0")
	}
}

func TestHannPeriodicMatchesClosedForm(t *testing.T) {
	const n = 512

	w, err := Hann(n, WithPeriodic())
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range w {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestHannPeriodicConstantOverlapAdd(t *testing.T) {
	const n = 1024

	w := Generate(TypeHann, n, WithPeriodic())

	for _, overlap := range []int{2, 4, 8} {
		hop := n / overlap
		sum := make([]float64, hop)

		for start := 0; start < n; start += hop {
			for i := range hop {
				sum[i] += w[start+i]
			}
		}

		want := float64(overlap) / 2
		for i, v := range sum {
			if math.Abs(v-want) > 1e-9 {
				t.Fatalf("overlap %d: sum[%d] = %v, want %v", overlap, i, v, want)
			}
		}
	}
}

func TestEnergy(t *testing.T) {
	const n = 2048

	w := Generate(TypeHann, n, WithPeriodic())

	// Σ hann² = 3N/8 for the periodic form.
	if got, want := Energy(w), 3.0*n/8; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Energy() = %v, want %v", got, want)
	}

	if Energy(nil) != 0 {
		t.Fatal("Energy(nil) must be 0")
	}
}

func TestCoherentGain(t *testing.T) {
	w := Generate(TypeHann, 1024, WithPeriodic())

	g, err := CoherentGain(w)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g-0.5) > 1e-12 {
		t.Fatalf("CoherentGain() = %v, want 0.5", g)
	}

	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	samples := []float64{2, 2, 2}

	if err := ApplyCoefficientsInPlace(samples, []float64{0.5, 1, 0}); err != nil {
		t.Fatal(err)
	}
	if samples[0] != 1 || samples[1] != 2 || samples[2] != 0 {
		t.Fatalf("unexpected samples: %v", samples)
	}

	if err := ApplyCoefficientsInPlace(samples, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestTypeString(t *testing.T) {
	if TypeHann.String() != "Hann" {
		t.Fatalf("TypeHann.String() = %q", TypeHann.String())
	}
	if Type(99).String() != "Unknown" {
		t.Fatalf("Type(99).String() = %q", Type(99).String())
	}
}
