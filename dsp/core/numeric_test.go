package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(10, 1, 5); got != 5 {
		t.Fatalf("ClampInt(10, 1, 5) = %d, want 5", got)
	}
	if got := ClampInt(-3, 1, 5); got != 1 {
		t.Fatalf("ClampInt(-3, 1, 5) = %d, want 1", got)
	}
	if got := ClampInt(3, 5, 1); got != 3 {
		t.Fatalf("ClampInt(3, 5, 1) = %d, want 3", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "finite", in: 0.25, want: 0.25},
		{name: "nan", in: math.NaN(), want: 7},
		{name: "+inf", in: math.Inf(1), want: 7},
		{name: "-inf", in: math.Inf(-1), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in, 7); got != tt.want {
				t.Fatalf("Sanitize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-35); got != 0 {
		t.Fatalf("FlushDenormals(1e-35) = %v, want 0", got)
	}
	if got := FlushDenormals(-0.5); got != -0.5 {
		t.Fatalf("FlushDenormals(-0.5) = %v, want -0.5", got)
	}
}

func TestPowerOfTwoHelpers(t *testing.T) {
	tests := []struct {
		n      int
		isPow2 bool
		next   int
		log2   int
	}{
		{n: 0, isPow2: false, next: 1, log2: -1},
		{n: 1, isPow2: true, next: 1, log2: 0},
		{n: 3, isPow2: false, next: 4, log2: -1},
		{n: 512, isPow2: true, next: 512, log2: 9},
		{n: 1000, isPow2: false, next: 1024, log2: -1},
		{n: 8192, isPow2: true, next: 8192, log2: 13},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.isPow2 {
			t.Fatalf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.isPow2)
		}
		if got := NextPowerOfTwo(tt.n); got != tt.next {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.next)
		}
		if got := Log2(tt.n); got != tt.log2 {
			t.Fatalf("Log2(%d) = %d, want %d", tt.n, got, tt.log2)
		}
	}
}
