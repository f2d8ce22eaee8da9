package compose

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"right edge", 110, 40, true},
		{"top edge", 50, 20, true},
		{"bottom edge", 50, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
		{"far outside", 999, 999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint below", Rect{10, 111, 50, 50}, false},
		{"same rect", Rect{10, 10, 100, 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Intersects(tt.other)
			if got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{0, 0, 100, 100}
	b := Rect{50, 50, 100, 100}
	got := a.Intersection(b)
	want := Rect{50, 50, 50, 50}
	if got != want {
		t.Errorf("Intersection = %v, want %v", got, want)
	}
}

func TestColorOver(t *testing.T) {
	red := Color{1, 0, 0, 1}
	blue := Color{0, 0, 1, 1}
	got := red.Over(blue)
	if got != red {
		t.Errorf("opaque source-over should yield the source, got %v", got)
	}

	transparent := Color{1, 0, 0, 0}
	got = transparent.Over(blue)
	if got != blue {
		t.Errorf("fully transparent source-over should yield the dest, got %v", got)
	}
}

func TestContainsRounded(t *testing.T) {
	r := Rect{0, 0, 100, 100}
	c := CornerRadii{TopLeft: 20, TopRight: 20, BottomRight: 20, BottomLeft: 20}
	if !ContainsRounded(r, c, 50, 50) {
		t.Error("center of a rounded rect should be contained")
	}
	if ContainsRounded(r, c, 1, 1) {
		t.Error("corner pixel outside the quarter-circle should not be contained")
	}
	if !ContainsRounded(r, c, 20, 1) {
		t.Error("point on the straight top edge past the corner radius should be contained")
	}
}
