package buffer

import (
	"fmt"
	"sort"
	"strings"
)

// LineClassWhere selects which layer of a line a class applies to.
type LineClassWhere string

const (
	ClassText       LineClassWhere = "text"
	ClassBackground LineClassWhere = "background"
	ClassWrap       LineClassWhere = "wrap"
)

func (w LineClassWhere) valid() bool {
	switch w {
	case ClassText, ClassBackground, ClassWrap:
		return true
	}
	return false
}

type lineClasses map[LineClassWhere][]string

// LineInfo describes a line and its decorations.
type LineInfo struct {
	Line     int
	Handle   LineHandle
	Text     string
	Gutter   map[string]string
	Classes  map[LineClassWhere][]string
	Widgets  []*LineWidget
	Attached bool
}

// SetGutterMarker sets (or clears, when text is empty) the marker of gutter
// on line h.
func (b *Buffer) SetGutterMarker(h LineHandle, gutter, text string) error {
	if err := b.checkHandle(h); err != nil {
		return err
	}
	l := h.l
	if text == "" {
		if _, ok := l.gutter[gutter]; !ok {
			return nil
		}
		delete(l.gutter, gutter)
		b.version++
		return nil
	}
	if l.gutter == nil {
		l.gutter = make(map[string]string)
	}
	if l.gutter[gutter] == text {
		return nil
	}
	l.gutter[gutter] = text
	b.version++
	return nil
}

// GutterMarker returns the marker gutter shows for h.
func (b *Buffer) GutterMarker(h LineHandle, gutter string) (string, bool) {
	if !b.owns(h) {
		return "", false
	}
	s, ok := h.l.gutter[gutter]
	return s, ok
}

// ClearGutter removes every marker of gutter.
func (b *Buffer) ClearGutter(gutter string) {
	changed := false
	for _, l := range b.lines {
		if _, ok := l.gutter[gutter]; ok {
			delete(l.gutter, gutter)
			changed = true
		}
	}
	if changed {
		b.version++
	}
}

// AddLineClass adds class to line h. Adding a class twice is a no-op.
func (b *Buffer) AddLineClass(h LineHandle, where LineClassWhere, class string) error {
	if err := b.checkHandle(h); err != nil {
		return err
	}
	if !where.valid() {
		return fmt.Errorf("%w: line class layer %q", ErrInvalidArgument, where)
	}
	if class == "" {
		return fmt.Errorf("%w: empty line class", ErrInvalidArgument)
	}
	l := h.l
	for _, c := range l.classes[where] {
		if c == class {
			return nil
		}
	}
	if l.classes == nil {
		l.classes = make(lineClasses)
	}
	l.classes[where] = append(l.classes[where], class)
	b.version++
	return nil
}

// RemoveLineClass removes class from line h. An empty class removes every
// class of the layer.
func (b *Buffer) RemoveLineClass(h LineHandle, where LineClassWhere, class string) error {
	if err := b.checkHandle(h); err != nil {
		return err
	}
	if !where.valid() {
		return fmt.Errorf("%w: line class layer %q", ErrInvalidArgument, where)
	}
	l := h.l
	cur := l.classes[where]
	if len(cur) == 0 {
		return nil
	}
	if class == "" {
		delete(l.classes, where)
		b.version++
		return nil
	}
	for i, c := range cur {
		if c == class {
			l.classes[where] = append(cur[:i:i], cur[i+1:]...)
			b.version++
			return nil
		}
	}
	return nil
}

// LineInfo returns the decorations of h. Detached handles report
// Attached == false and no decorations.
func (b *Buffer) LineInfo(h LineHandle) LineInfo {
	info := LineInfo{Handle: h, Text: h.Text(), Line: -1}
	if !b.owns(h) {
		return info
	}
	l := h.l
	info.Attached = true
	info.Line = l.row
	if len(l.gutter) > 0 {
		info.Gutter = make(map[string]string, len(l.gutter))
		for k, v := range l.gutter {
			info.Gutter[k] = v
		}
	}
	if len(l.classes) > 0 {
		info.Classes = make(map[LineClassWhere][]string, len(l.classes))
		for k, v := range l.classes {
			info.Classes[k] = append([]string(nil), v...)
		}
	}
	info.Widgets = append([]*LineWidget(nil), l.widgets...)
	return info
}

// ClassString joins the classes of a layer the way renderers consume them.
func (i LineInfo) ClassString(where LineClassWhere) string {
	cs := append([]string(nil), i.Classes[where]...)
	sort.Strings(cs)
	return strings.Join(cs, " ")
}
