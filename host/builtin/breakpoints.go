package builtin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iw2rmb/lattice/host"
	"github.com/iw2rmb/lattice/lines"
	"github.com/iw2rmb/lattice/proxy"
)

// Breakpoints manages breakpoints by line number. Line arguments and
// output are 1-based.
func Breakpoints() host.Plugin {
	return host.Plugin{
		Name: "breakpoints",
		Functions: []host.Function{
			{
				Name:        "toggle",
				Description: "Toggle the breakpoint on a line",
				Args: []host.Argument{{
					Name:        "line",
					Description: "1-based line number",
					Type:        host.TypeNumber,
				}},
				Run: toggle,
			},
			{
				Name:        "list",
				Description: "Print the lines holding a breakpoint",
				ReadOnly:    true,
				Run:         list,
			},
			{
				Name:        "clear",
				Description: "Remove every breakpoint",
				Run:         clearAll,
			},
			{
				Name:        "debug",
				Description: "Walk the document line by line, pausing on breakpoints",
				ReadOnly:    true,
				Run:         debug,
			},
		},
		Menus: []host.Menu{{
			Name: "Debug",
			Items: []host.MenuItem{
				{Name: "Toggle Breakpoint", Command: "breakpoints.toggle"},
				{Name: "Clear Breakpoints", Command: "breakpoints.clear"},
				{Name: "Start Debugging", Command: "breakpoints.debug"},
			},
		}},
	}
}

func toggle(ctx context.Context, p host.Params) error {
	n, err := strconv.Atoi(p.Args["line"])
	if err != nil {
		return err
	}
	if _, err := p.Editor.ToggleBreakpoint(lines.At(n-1), nil).Await(ctx); err != nil {
		return err
	}
	return list(ctx, p)
}

func list(ctx context.Context, p host.Params) error {
	bps, err := p.Editor.GetBreakpoints().Await(ctx)
	if err != nil {
		return err
	}
	for _, n := range bps {
		fmt.Fprintf(p.Output, "%d\n", n+1)
	}
	return nil
}

func clearAll(ctx context.Context, p host.Params) error {
	handles, err := p.Editor.GetBreakpointLines().Await(ctx)
	if err != nil {
		return err
	}
	off := false
	var last *proxy.Future[struct{}]
	for _, h := range handles {
		last = p.Editor.ToggleBreakpoint(lines.Of(h), &off)
	}
	if last != nil {
		if _, err := last.Await(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintf(p.Output, "cleared %d breakpoints\n", len(handles))
	return nil
}

// All returns every built-in plugin.
func All() []host.Plugin {
	return []host.Plugin{Lint(), Breakpoints()}
}
