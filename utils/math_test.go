package utils

import "testing"

func TestMinMax(t *testing.T) {
	if got := Min(3, 7); got != 3 {
		t.Errorf("Min(3, 7) = %v, expected 3", got)
	}
	if got := Max(3.5, 1.2); got != 3.5 {
		t.Errorf("Max(3.5, 1.2) = %v, expected 3.5", got)
	}
}

func TestAbs(t *testing.T) {
	if got := Abs(-4); got != 4 {
		t.Errorf("Abs(-4) = %v, expected 4", got)
	}
	if got := Abs(2.5); got != 2.5 {
		t.Errorf("Abs(2.5) = %v, expected 2.5", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{42, 0, 1, 1},
	}
	for _, tc := range tests {
		if got := Clamp(tc.x, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tc.x, tc.lo, tc.hi, got, tc.want)
		}
	}
}
