package path

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// approx compares floats to within 1e-9, enough to absorb lerp rounding
// while still catching real geometry errors.
var approx = cmp.Comparer(func(x, y float64) bool {
	return math.Abs(x-y) <= 1e-9
})

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}
