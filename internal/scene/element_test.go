package scene

import "testing"

func box(x, y, w, h float64) *Bounds {
	return &Bounds{X: x, Y: y, Width: w, Height: h}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b *Bounds
		want bool
	}{
		{name: "partial overlap", a: box(0, 0, 10, 10), b: box(5, 5, 10, 10), want: true},
		{name: "disjoint", a: box(0, 0, 10, 10), b: box(20, 20, 10, 10), want: false},
		{name: "contained", a: box(0, 0, 100, 100), b: box(10, 10, 5, 5), want: true},
		{name: "touching edge", a: box(0, 0, 10, 10), b: box(10, 0, 10, 10), want: false},
		{name: "touching corner", a: box(0, 0, 10, 10), b: box(10, 10, 5, 5), want: false},
		{name: "left of", a: box(20, 0, 10, 10), b: box(0, 0, 10, 10), want: false},
		{name: "above", a: box(0, 20, 10, 10), b: box(0, 0, 10, 10), want: false},
		{name: "missing first bounds", a: nil, b: box(0, 0, 10, 10), want: false},
		{name: "missing second bounds", a: box(0, 0, 10, 10), b: nil, want: false},
		{name: "missing both bounds", a: nil, b: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Element{ID: "a", Bounds: tt.a}
			b := Element{ID: "b", Bounds: tt.b}
			if got := Overlaps(a, b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if got := Overlaps(b, a); got != tt.want {
				t.Errorf("Overlaps(b, a) = %v, want %v (not symmetric)", got, tt.want)
			}
		})
	}
}
