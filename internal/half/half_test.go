package half

import (
	"math"
	"testing"

	"github.com/x448/float16"
)

// TestAgreesWithEcosystemLibrary cross-checks the teacher's hand-rolled
// bit-twiddling against x448/float16 across a representative sweep,
// including zero, subnormals, infinities, and NaN.
func TestAgreesWithEcosystemLibrary(t *testing.T) {
	samples := []float32{
		0, -0, 1, -1, 0.5, -0.5, 65504, -65504,
		float32(math.Inf(1)), float32(math.Inf(-1)),
		1.0e-10, 1.0e10, 3.14159,
	}
	for _, f := range samples {
		got := ToBits(f)
		want := float16.Fromfloat32(f).Bits()
		if got != want {
			t.Errorf("ToBits(%v) = %#04x, want %#04x", f, got, want)
		}
	}

	for bits := 0; bits < 1<<16; bits += 97 {
		b := uint16(bits)
		got := FromBits(b)
		want := float16.Frombits(b).Float32()
		gotNaN := math.IsNaN(float64(got))
		wantNaN := math.IsNaN(float64(want))
		if gotNaN != wantNaN {
			t.Fatalf("FromBits(%#04x) NaN mismatch: got %v want %v", b, got, want)
		}
		if !gotNaN && got != want {
			t.Errorf("FromBits(%#04x) = %v, want %v", b, got, want)
		}
	}
}
