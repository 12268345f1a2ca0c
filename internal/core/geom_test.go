package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestCenteredRect(t *testing.T) {
	tests := []struct {
		name           string
		outerW, outerH int
		w, h           int
		want           Rect
	}{
		{"fits", 80, 24, 30, 10, NewRect(25, 7, 30, 10)},
		{"exact", 30, 10, 30, 10, NewRect(0, 0, 30, 10)},
		{"too large clamps to origin", 20, 5, 30, 10, NewRect(0, 0, 30, 10)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CenteredRect(tc.outerW, tc.outerH, tc.w, tc.h); got != tc.want {
				t.Errorf("CenteredRect() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestTileColor(t *testing.T) {
	if TileColor(0) != ColorDefault {
		t.Errorf("TileColor(0) = %v, expected default", TileColor(0))
	}
	if TileColor(1) != ColorGray {
		t.Errorf("TileColor(1) = %v, expected gray", TileColor(1))
	}
	if TileColor(1+len(tilePalette)) != TileColor(1) {
		t.Error("TileColor should wrap around the palette")
	}
}
