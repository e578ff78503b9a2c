package colour

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
)

func TestSortByDistance(t *testing.T) {
	tests := []struct {
		name    string
		palette Palette
		want    Palette
	}{
		{
			name:    "grey ramp puts the middle first",
			palette: Palette{"#000000", "#808080", "#ffffff"},
			want:    Palette{"#808080", "#ffffff", "#000000"},
		},
		{
			name:    "single colour",
			palette: Palette{"#123456"},
			want:    Palette{"#123456"},
		},
		{
			name:    "duplicates keep input order",
			palette: Palette{"#ff0000", "#FF0000", "#00ff00", "#0000ff"},
			want:    nil, // checked below
		},
		{
			name:    "empty",
			palette: Palette{},
			want:    Palette{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortByDistance(tt.palette)
			if tt.want == nil {
				// Identical colours have identical distances; stability keeps them adjacent and ordered.
				first := -1
				for i, hex := range got {
					if strings.EqualFold(hex, "#ff0000") {
						if first == -1 {
							first = i
							if hex != "#ff0000" {
								t.Errorf("stable sort reordered duplicates: %v", got)
							}
						} else if i != first+1 {
							t.Errorf("duplicates not adjacent: %v", got)
						}
					}
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SortByDistance() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortByDistanceIdempotent(t *testing.T) {
	faker := gofakeit.New(7)

	for range 50 {
		palette := make(Palette, 2+faker.IntN(10))
		for i := range palette {
			palette[i] = strings.ToLower(faker.HexColor())
		}

		once := SortByDistance(palette)
		twice := SortByDistance(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("SortByDistance() not idempotent for %v (-once +twice):\n%s", palette, diff)
		}
	}
}

func TestSortByDistanceDoesNotModifyInput(t *testing.T) {
	palette := Palette{"#000000", "#808080", "#ffffff"}
	_ = SortByDistance(palette)

	if diff := cmp.Diff(Palette{"#000000", "#808080", "#ffffff"}, palette); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([]Lab{{L: 10, A: -4, B: 2}, {L: 30, A: 4, B: 6}})
	want := Lab{L: 20, A: 0, B: 4}
	if got != want {
		t.Errorf("Centroid() = %+v, want %+v", got, want)
	}

	if got := Centroid(nil); got != (Lab{}) {
		t.Errorf("Centroid(nil) = %+v, want zero", got)
	}
}
