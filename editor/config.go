package editor

import (
	"fmt"
	"slices"
)

// Option names accepted by Core.Option and Core.SetOption.
const (
	OptTabSize        = "tabSize"
	OptIndentUnit     = "indentUnit"
	OptIndentWithTabs = "indentWithTabs"
	OptLineNumbers    = "lineNumbers"
	OptReadOnly       = "readOnly"
	OptMode           = "mode"
	OptGutters        = "gutters"
)

// LineNumbersGutter is the gutter id reported for clicks on line numbers.
const LineNumbersGutter = "lineNumbers"

// Options configures a Core.
type Options struct {
	TabSize        int
	IndentUnit     int
	IndentWithTabs bool
	LineNumbers    bool
	ReadOnly       bool
	// Mode names the document language. It is informational.
	Mode string
	// Gutters lists marker gutters, drawn left to right before line numbers.
	Gutters []string

	// Forwarded to buffer.Options when the Core creates its buffer.
	HistoryLimit int
}

func DefaultOptions() Options {
	return Options{
		TabSize:     4,
		IndentUnit:  2,
		LineNumbers: true,
	}
}

func (o Options) normalized() Options {
	if o.TabSize <= 0 {
		o.TabSize = 4
	}
	if o.IndentUnit <= 0 {
		o.IndentUnit = 2
	}
	o.Gutters = slices.Clone(o.Gutters)
	return o
}

func (o Options) get(name string) (any, error) {
	switch name {
	case OptTabSize:
		return o.TabSize, nil
	case OptIndentUnit:
		return o.IndentUnit, nil
	case OptIndentWithTabs:
		return o.IndentWithTabs, nil
	case OptLineNumbers:
		return o.LineNumbers, nil
	case OptReadOnly:
		return o.ReadOnly, nil
	case OptMode:
		return o.Mode, nil
	case OptGutters:
		return slices.Clone(o.Gutters), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOption, name)
}

// set returns the options with name set to v and whether anything changed.
func (o Options) set(name string, v any) (Options, bool, error) {
	bad := func() (Options, bool, error) {
		return o, false, fmt.Errorf("%w: %s=%v (%T)", ErrInvalidOption, name, v, v)
	}
	switch name {
	case OptTabSize, OptIndentUnit:
		n, ok := v.(int)
		if !ok || n <= 0 {
			return bad()
		}
		if name == OptTabSize {
			if o.TabSize == n {
				return o, false, nil
			}
			o.TabSize = n
		} else {
			if o.IndentUnit == n {
				return o, false, nil
			}
			o.IndentUnit = n
		}
	case OptIndentWithTabs, OptLineNumbers, OptReadOnly:
		b, ok := v.(bool)
		if !ok {
			return bad()
		}
		p := map[string]*bool{
			OptIndentWithTabs: &o.IndentWithTabs,
			OptLineNumbers:    &o.LineNumbers,
			OptReadOnly:       &o.ReadOnly,
		}[name]
		if *p == b {
			return o, false, nil
		}
		*p = b
	case OptMode:
		s, ok := v.(string)
		if !ok {
			return bad()
		}
		if o.Mode == s {
			return o, false, nil
		}
		o.Mode = s
	case OptGutters:
		gs, ok := v.([]string)
		if !ok {
			return bad()
		}
		if slices.Equal(o.Gutters, gs) {
			return o, false, nil
		}
		o.Gutters = slices.Clone(gs)
	default:
		return o, false, fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return o, true, nil
}
