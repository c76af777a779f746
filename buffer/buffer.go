package buffer

type Options struct {
	HistoryLimit int // default: 1000
}

// Buffer is the document state: lines, selections, history and the
// decorations attached to lines and ranges.
type Buffer struct {
	lines       []*line
	version     uint64
	textVersion uint64

	sel       Selection
	extending bool

	opt  Options
	hist *historyState

	markers   []*TextMarker
	markerSeq uint64
	widgetSeq uint64

	op        opState
	observers []observer
	obsSeq    int

	links []docLink
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	b := &Buffer{
		lines: linesFromSegments(splitSegments(text)),
		sel:   SingleSelection(Pos{}, Pos{}),
		opt:   opt,
		hist:  newHistory(opt.HistoryLimit),
	}
	b.renumber(0)
	return b
}

// Text returns the document with every line's own terminator.
func (b *Buffer) Text() string { return b.Value("") }

// Value returns the document joined with sep. An empty sep keeps each
// line's original terminator.
func (b *Buffer) Value(sep string) string { return joinLines(b.lines, sep) }

// LineSeparator returns the separator used for newly split text when no
// explicit separator is requested.
func (b *Buffer) LineSeparator() string { return "\n" }

// Version increments on every effective mutation, including cursor,
// selection and decoration changes.
func (b *Buffer) Version() uint64 { return b.version }

// TextVersion increments only when document text changes.
func (b *Buffer) TextVersion() uint64 { return b.textVersion }

// Extending reports whether cursor motion and ExtendSelection keep the
// selection anchor in place.
func (b *Buffer) Extending() bool { return b.extending }

func (b *Buffer) SetExtending(v bool) { b.extending = v }

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row].cells)
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

func (b *Buffer) endPos() Pos {
	last := len(b.lines) - 1
	return Pos{Row: last, GraphemeCol: len(b.lines[last].cells)}
}
