package buffer

import "fmt"

type WidgetOptions struct {
	Above       bool
	CoverGutter bool
	NoHScroll   bool
}

// LineWidget is a block of content rendered below (or above) a line. It is
// removed together with its line.
type LineWidget struct {
	id      uint64
	line    *line
	class   string
	content string
	opts    WidgetOptions
	removed bool
}

func (w *LineWidget) ID() uint64 { return w.id }

func (w *LineWidget) Class() string { return w.class }

func (w *LineWidget) Content() string { return w.content }

func (w *LineWidget) Options() WidgetOptions { return w.opts }

// Line returns the handle of the line the widget belongs to.
func (w *LineWidget) Line() LineHandle { return LineHandle{l: w.line} }

// Removed reports whether the widget was removed, explicitly or because
// its line detached.
func (w *LineWidget) Removed() bool { return w == nil || w.removed }

// AddLineWidget attaches a widget to h.
func (b *Buffer) AddLineWidget(h LineHandle, class, content string, opts WidgetOptions) (*LineWidget, error) {
	if err := b.checkHandle(h); err != nil {
		return nil, fmt.Errorf("line widget: %w", err)
	}
	b.widgetSeq++
	w := &LineWidget{
		id:      b.widgetSeq,
		line:    h.l,
		class:   class,
		content: content,
		opts:    opts,
	}
	if opts.Above {
		h.l.widgets = append([]*LineWidget{w}, h.l.widgets...)
	} else {
		h.l.widgets = append(h.l.widgets, w)
	}
	b.version++
	return w, nil
}

// RemoveLineWidget removes w. Removing a widget twice is a no-op.
func (b *Buffer) RemoveLineWidget(w *LineWidget) {
	if w.Removed() {
		return
	}
	w.removed = true
	ws := w.line.widgets
	for i, x := range ws {
		if x == w {
			w.line.widgets = append(ws[:i:i], ws[i+1:]...)
			break
		}
	}
	b.version++
}

// LineWidgets returns the widgets of h in render order.
func (b *Buffer) LineWidgets(h LineHandle) []*LineWidget {
	if !b.owns(h) {
		return nil
	}
	return append([]*LineWidget(nil), h.l.widgets...)
}

// WidgetByID finds a live widget on an attached line.
func (b *Buffer) WidgetByID(id uint64) (*LineWidget, bool) {
	for _, l := range b.lines {
		for _, w := range l.widgets {
			if w.id == id {
				return w, true
			}
		}
	}
	return nil, false
}
