// Package builtin holds the plugins that ship with lattice.
package builtin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/lattice/annotate"
	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/host"
	"github.com/iw2rmb/lattice/lines"
	"github.com/iw2rmb/lattice/proxy"
)

// Lint reports overlong lines as errors, trailing whitespace as warnings
// and mixed tab/space indentation as info.
func Lint() host.Plugin {
	positive := func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("want a positive integer")
		}
		return nil
	}
	return host.Plugin{
		Name: "lint",
		Functions: []host.Function{
			{
				Name:        "check",
				Description: "Annotate problem lines, replacing earlier annotations",
				Run:         runCheck,
			},
			{
				Name:        "clear",
				Description: "Remove every annotation",
				Run: func(ctx context.Context, p host.Params) error {
					n, err := clearAnnotations(ctx, p.Editor)
					if err != nil {
						return err
					}
					fmt.Fprintf(p.Output, "cleared %d annotations\n", n)
					return nil
				},
			},
		},
		Settings: []host.Setting{
			{
				ID:          "max_line",
				Name:        "Maximum line width",
				Description: "Lines wider than this many cells are errors",
				Type:        host.TypeNumber,
				Default:     "100",
				Validator:   positive,
			},
		},
		Menus: []host.Menu{{
			Name: "Lint",
			Items: []host.MenuItem{
				{Name: "Check", Command: "lint.check"},
				{Name: "Clear", Command: "lint.clear"},
			},
		}},
	}
}

// Problem is one finding of the lint check.
type Problem struct {
	Line    int
	Kind    string
	Message string
}

const (
	KindLong     = "long"
	KindTrailing = "trailing"
	KindMixed    = "mixed"
)

// Check inspects lines and returns their problems in line order.
func Check(lns []string, maxWidth int) []Problem {
	var out []Problem
	for i, l := range lns {
		if w := runewidth.StringWidth(l); w > maxWidth {
			out = append(out, Problem{Line: i, Kind: KindLong, Message: fmt.Sprintf("line is %d cells wide (max %d)", w, maxWidth)})
		}
		if trimmed := strings.TrimRight(l, " \t"); len(trimmed) != len(l) {
			out = append(out, Problem{Line: i, Kind: KindTrailing, Message: "trailing whitespace"})
		}
		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if strings.Contains(indent, " ") && strings.Contains(indent, "\t") {
			out = append(out, Problem{Line: i, Kind: KindMixed, Message: "indentation mixes tabs and spaces"})
		}
	}
	return out
}

func runCheck(ctx context.Context, p host.Params) error {
	maxWidth, err := strconv.Atoi(p.Settings["max_line"])
	if err != nil {
		return err
	}
	if _, err := clearAnnotations(ctx, p.Editor); err != nil {
		return err
	}
	value, err := p.Editor.GetValue("\n").Await(ctx)
	if err != nil {
		return err
	}
	problems := Check(strings.Split(value, "\n"), maxWidth)

	futures := make([]*proxy.Future[facade.Annotation], 0, len(problems))
	for _, pr := range problems {
		ref := lines.At(pr.Line)
		switch pr.Kind {
		case KindLong:
			futures = append(futures, p.Editor.AddError(ref, pr.Message))
		case KindTrailing:
			futures = append(futures, p.Editor.AddWarning(ref, pr.Message))
		default:
			futures = append(futures, p.Editor.AddInfo(ref, pr.Message))
		}
	}
	for i, f := range futures {
		if _, err := f.Await(ctx); err != nil {
			return err
		}
		fmt.Fprintf(p.Output, "%d: %s\n", problems[i].Line+1, problems[i].Message)
	}
	p.Log.Debugf("%d problems", len(problems))
	fmt.Fprintf(p.Output, "%d problems\n", len(problems))
	return nil
}

func clearAnnotations(ctx context.Context, e *facade.Editor) (int, error) {
	as, err := e.Annotations().Await(ctx)
	if err != nil {
		return 0, err
	}
	var last *proxy.Future[struct{}]
	for _, a := range as {
		switch a.Severity {
		case annotate.Error:
			last = e.RemoveError(a)
		case annotate.Warning:
			last = e.RemoveWarning(a)
		default:
			last = e.RemoveInfo(a)
		}
	}
	if last != nil {
		if _, err := last.Await(ctx); err != nil {
			return 0, err
		}
	}
	return len(as), nil
}
