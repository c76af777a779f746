package editor

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/lattice/annotate"
	"github.com/iw2rmb/lattice/breakpoint"
	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/lines"
)

func plainModel(text string, opts Options) Model {
	core := NewCore(buffer.New(text, buffer.Options{}), opts)
	return New(core, Config{KeyMap: DefaultKeyMap()})
}

func TestRender_LineNumberAlignment_1To120(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("x")
	}

	m := plainModel(sb.String(), Options{LineNumbers: true})
	m = m.SetSize(10, 120)

	got := strings.Split(m.View(), "\n")
	if len(got) != 120 {
		t.Fatalf("expected 120 lines, got %d", len(got))
	}

	digits := 3
	for i, line := range got {
		wantPrefix := fmt.Sprintf("%*d x", digits, i+1)
		if !strings.HasPrefix(line, wantPrefix) {
			t.Fatalf("line %d prefix: got %q, want prefix %q", i+1, line, wantPrefix)
		}
	}
}

func TestRender_BreakpointGutter(t *testing.T) {
	m := plainModel("a\nb\nc", Options{LineNumbers: true, Gutters: []string{breakpoint.Gutter}})
	tr := breakpoint.NewTracker(m.Core().Doc())
	defer tr.Close()
	if err := tr.Toggle(lines.At(1), nil); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	got := strings.Split(m.renderContent(), "\n")
	want := []string{
		"  1 a",
		"● 2 b",
		"  3 c",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("render:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_AnnotationWidgets(t *testing.T) {
	m := plainModel("a\nb", Options{LineNumbers: true})
	doc := m.Core().Doc()
	am := annotate.NewManager(doc)
	defer am.Close()

	if _, err := am.Add(annotate.Error, lines.At(0), "boom"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	h, _ := doc.LineHandle(1)
	if _, err := doc.AddLineWidget(h, "note", "above", buffer.WidgetOptions{Above: true}); err != nil {
		t.Fatalf("AddLineWidget: %v", err)
	}

	got := m.renderContent()
	want := "1 a\nboom\n  above\n2 b"
	if got != want {
		t.Fatalf("render:\n got: %q\nwant: %q", got, want)
	}
	if row, ok := m.layout.screenRowOf(1); !ok || row != 3 {
		t.Fatalf("screen row of line 1: got %d ok=%v, want 3", row, ok)
	}
}

func TestRender_WidgetTruncatedToWidth(t *testing.T) {
	m := plainModel("a", Options{})
	am := annotate.NewManager(m.Core().Doc())
	defer am.Close()
	_, _ = am.Add(annotate.Warning, lines.At(0), "a very long warning message")

	m = m.SetSize(8, 2)
	got := strings.Split(m.View(), "\n")
	if len(got) != 2 {
		t.Fatalf("view rows: got %d, want 2", len(got))
	}
	if want := "a very …"; got[1] != want {
		t.Fatalf("widget row: got %q, want %q", got[1], want)
	}
}

func TestRender_TabsExpandToStops(t *testing.T) {
	m := plainModel("\tab", Options{TabSize: 4})
	if got, want := m.renderContent(), "    ab"; got != want {
		t.Fatalf("render: got %q, want %q", got, want)
	}
}

func TestRender_CursorProducesANSIWhenFocused(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)

	core := NewCore(buffer.New("ab", buffer.Options{}), Options{})
	m := New(core, Config{Style: Style{Cursor: r.NewStyle().Reverse(true)}})

	if got := m.renderContent(); got != "ab" {
		t.Fatalf("blurred render: got %q, want %q", got, "ab")
	}
	m = m.Focus()
	got := m.renderContent()
	if !strings.Contains(got, "\x1b[7m") || !strings.HasSuffix(got, "b") {
		t.Fatalf("focused render has no reverse cursor: %q", got)
	}
}
