package grapheme

import "testing"

func TestSplit_MultiRuneClusters(t *testing.T) {
	family := "\U0001F468\u200d\U0001F469\u200d\U0001F467"
	text := "a" + "e\u0301" + family + "b"
	got := Split(text)
	if len(got) != 4 {
		t.Fatalf("split len=%d, want 4", len(got))
	}
	if got[1] != "e\u0301" || got[2] != family {
		t.Fatalf("split=%q", got)
	}
	if Join(got) != text {
		t.Fatalf("join=%q, want %q", Join(got), text)
	}
	if Split("") != nil {
		t.Fatalf("split of empty text must be nil")
	}
	if got := Split("\r\n"); len(got) != 1 {
		t.Fatalf("crlf is one cluster, got %q", got)
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		in   string
		want Class
	}{
		{"a", Word},
		{"_", Word},
		{"7", Word},
		{"é", Word},
		{" ", Space},
		{"\t", Space},
		{".", Punct},
		{"+", Punct},
		{"(", Punct},
	}
	for _, tt := range tests {
		if got := ClassOf(tt.in); got != tt.want {
			t.Fatalf("ClassOf(%q)=%d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		in              string
		tab             int
		clusters, width int
	}{
		{"x", 4, 0, 0},
		{"  x", 4, 2, 2},
		{"\tx", 4, 1, 4},
		{" \tx", 4, 2, 4},
		{"\t\t", 2, 2, 4},
		{"   \t", 0, 4, 4},
	}
	for _, tt := range tests {
		c, w := Indent(tt.in, tt.tab)
		if c != tt.clusters || w != tt.width {
			t.Fatalf("Indent(%q, %d)=(%d, %d), want (%d, %d)", tt.in, tt.tab, c, w, tt.clusters, tt.width)
		}
	}
}
