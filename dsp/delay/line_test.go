package delay

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func fillRamp(d *Line) {
	for i := 0; i < d.Len(); i++ {
		d.Write(float64(i))
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}
	// buffer is [8, 9, 6, 7], writePos=2
	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if d.WritePos() != 2 {
		t.Fatalf("WritePos() = %d, want 2", d.WritePos())
	}
}

func TestReadFractionalIntegerDelayMatchesRead(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)

	for delay := 1; delay < 15; delay++ {
		if got, want := d.ReadFractional(float64(delay)), d.Read(delay); got != want {
			t.Fatalf("ReadFractional(%d) = %v, want %v", delay, got, want)
		}
	}
}

func TestReadFractionalLinearRamp(t *testing.T) {
	d, err := New(32)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)

	// With a linear ramp, linear interpolation is exact.
	got := d.ReadFractional(5.5)
	want := float64(d.Len()) - 5.5
	if !approxEqual(got, want, 1e-10) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestReadFractionalWrapsBothDirections(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)

	if got, want := d.ReadFractional(2+8), d.Read(2); got != want {
		t.Fatalf("delay beyond length: got %v want %v", got, want)
	}
	if got, want := d.ReadFractional(2-8), d.Read(2); got != want {
		t.Fatalf("negative delay: got %v want %v", got, want)
	}
}

func TestResizeCopiesWhatFits(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 7; i++ {
		d.Write(float64(i + 1))
	}

	if err := d.Resize(4); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", d.Len())
	}
	if d.WritePos() != 3 {
		t.Fatalf("WritePos() = %d, want 7 %% 4 = 3", d.WritePos())
	}
	for i, want := range []float64{1, 2, 3, 4} {
		if d.buffer[i] != want {
			t.Fatalf("buffer[%d] = %v, want %v", i, d.buffer[i], want)
		}
	}

	if err := d.Resize(10); err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{1, 2, 3, 4, 0, 0, 0, 0, 0, 0} {
		if d.buffer[i] != want {
			t.Fatalf("grown buffer[%d] = %v, want %v", i, d.buffer[i], want)
		}
	}
	if d.WritePos() != 3 {
		t.Fatalf("WritePos() after grow = %d, want 3", d.WritePos())
	}

	if err := d.Resize(0); err == nil {
		t.Fatal("expected error for size=0")
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Reset()

	if d.WritePos() != 0 {
		t.Fatalf("WritePos() = %d, want 0", d.WritePos())
	}
	for i := 0; i < 4; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}
