package editor

import "testing"

func TestLayoutCells_TabUsesTabStops(t *testing.T) {
	cells := layoutCells("a\tb", 4)
	if len(cells) != 3 {
		t.Fatalf("cell count: got %d, want %d", len(cells), 3)
	}

	if got, want := cells[0].width, 1; got != want {
		t.Fatalf("width of 'a': got %d, want %d", got, want)
	}
	if got, want := cells[1].width, 3; got != want {
		t.Fatalf("width of tab after col 1: got %d, want %d", got, want)
	}
	if got, want := cells[2].start, 4; got != want {
		t.Fatalf("start of 'b': got %d, want %d", got, want)
	}
}

func TestLayoutCells_UnicodeWidths(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantWidth int
	}{
		{name: "combining", text: "éx", wantWidth: 1},
		{name: "emoji", text: "🙂x", wantWidth: 2},
		{name: "cjk", text: "界x", wantWidth: 2},
		{name: "zwj", text: "👨‍👩‍👧‍👦x", wantWidth: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cells := layoutCells(tc.text, 4)
			if len(cells) != 2 {
				t.Fatalf("cells for %q: got %d, want 2", tc.text, len(cells))
			}
			if got := cells[0].width; got != tc.wantWidth {
				t.Fatalf("first width: got %d, want %d", got, tc.wantWidth)
			}
			if got := cells[1].start; got != tc.wantWidth {
				t.Fatalf("second start: got %d, want %d", got, tc.wantWidth)
			}
		})
	}
}

func TestColAtCell(t *testing.T) {
	cells := layoutCells("a界b", 4)
	cases := []struct{ x, want int }{
		{0, 0}, {1, 1}, {2, 1}, {3, 2}, {9, 3},
	}
	for _, tc := range cases {
		if got := colAtCell(cells, tc.x); got != tc.want {
			t.Fatalf("colAtCell(%d): got %d, want %d", tc.x, got, tc.want)
		}
	}
}
