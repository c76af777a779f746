package host

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/lattice/facade"
)

var log = commonlog.GetLogger("lattice.host")

// Options configures a Host.
type Options struct {
	// Settings maps plugin names to their configured setting values.
	Settings map[string]map[string]any
	// Panel receives function output. A fresh panel is used when nil.
	Panel *Panel
}

// Host owns the registered plugins and the editor they run against.
type Host struct {
	ed    *facade.Editor
	panel *Panel
	conf  map[string]map[string]any

	mu      sync.RWMutex
	plugins map[string]*registered
}

type registered struct {
	plugin   Plugin
	settings map[string]string
	funcs    map[string]Function
}

func New(ed *facade.Editor, opts Options) *Host {
	panel := opts.Panel
	if panel == nil {
		panel = NewPanel(nil)
	}
	return &Host{
		ed:      ed,
		panel:   panel,
		conf:    opts.Settings,
		plugins: make(map[string]*registered),
	}
}

func (h *Host) Panel() *Panel { return h.panel }

func (h *Host) Editor() *facade.Editor { return h.ed }

// Register adds p, replacing a plugin of the same name. Its settings are
// resolved against the configuration once, here.
func (h *Host) Register(p Plugin) error {
	if p.Name == "" || strings.Contains(p.Name, ".") {
		return fmt.Errorf("%w: bad name %q", ErrInvalidPlugin, p.Name)
	}
	r := &registered{plugin: p, funcs: make(map[string]Function, len(p.Functions))}
	for _, f := range p.Functions {
		if f.Name == "" || f.Run == nil {
			return fmt.Errorf("%w: %s: function %q has no name or body", ErrInvalidPlugin, p.Name, f.Name)
		}
		if _, dup := r.funcs[f.Name]; dup {
			return fmt.Errorf("%w: %s: duplicate function %q", ErrInvalidPlugin, p.Name, f.Name)
		}
		r.funcs[f.Name] = f
	}
	settings, err := resolveSettings(p, h.conf[p.Name])
	if err != nil {
		return err
	}
	r.settings = settings

	h.mu.Lock()
	defer h.mu.Unlock()
	h.plugins[p.Name] = r
	log.Debugf("registered plugin %s (%d functions)", p.Name, len(p.Functions))
	return nil
}

func (h *Host) Unregister(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.plugins, name)
}

// Plugins returns the registered plugins sorted by name.
func (h *Host) Plugins() []Plugin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Plugin, 0, len(h.plugins))
	for _, r := range h.plugins {
		out = append(out, r.plugin)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Tools lists every function as an MCP tool, sorted by name.
func (h *Host) Tools() []mcp.Tool {
	var tools []mcp.Tool
	for _, p := range h.Plugins() {
		for _, f := range p.Functions {
			tools = append(tools, f.Tool(p.Name))
		}
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Menus returns every plugin's menus, in plugin name order.
func (h *Host) Menus() []Menu {
	var menus []Menu
	for _, p := range h.Plugins() {
		menus = append(menus, p.Menus...)
	}
	return menus
}

func (h *Host) lookup(command string) (Function, *registered, error) {
	plugin, name, ok := strings.Cut(command, ".")
	if !ok {
		return Function{}, nil, fmt.Errorf("%w: %q", ErrUnknownFunction, command)
	}
	h.mu.RLock()
	r, ok := h.plugins[plugin]
	h.mu.RUnlock()
	if !ok {
		return Function{}, nil, fmt.Errorf("%w: %q", ErrUnknownFunction, command)
	}
	f, ok := r.funcs[name]
	if !ok {
		return Function{}, nil, fmt.Errorf("%w: %q", ErrUnknownFunction, command)
	}
	return f, r, nil
}

// Call validates args and runs the function named by command
// ("plugin.function"). Output goes to a new run-panel stream named after
// the command, which is returned even when the function fails.
func (h *Host) Call(ctx context.Context, command string, args map[string]string) (*Stream, error) {
	f, r, err := h.lookup(command)
	if err != nil {
		return nil, err
	}
	values, err := resolveArgs(command, f.Args, args)
	if err != nil {
		return nil, err
	}
	out := h.panel.Add(command)
	p := Params{
		Args:     values,
		Settings: r.settings,
		Editor:   h.ed,
		Output:   out,
		Stream:   out,
		Log:      commonlog.GetLogger("lattice.plugin." + r.plugin.Name),
	}
	log.Debugf("run %s %v", command, values)
	return out, run(ctx, command, f.Run, p)
}

func run(ctx context.Context, command string, fn RunFunc, p Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", command, r)
		}
	}()
	if err := fn(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

// Invocation names one function call for RunAll.
type Invocation struct {
	Command string
	Args    map[string]string
}

// RunAll runs the invocations concurrently and returns the first error.
// Editor operations from each invocation still apply in the order that
// invocation issued them.
func (h *Host) RunAll(ctx context.Context, calls []Invocation) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range calls {
		g.Go(func() error {
			_, err := h.Call(ctx, c.Command, c.Args)
			return err
		})
	}
	return g.Wait()
}

func resolveArgs(command string, params []Argument, args map[string]string) (map[string]string, error) {
	known := make(map[string]bool, len(params))
	values := make(map[string]string, len(params))
	for _, a := range params {
		known[a.Name] = true
		v, ok := args[a.Name]
		if !ok || v == "" {
			if a.Default == "" {
				if a.Optional {
					continue
				}
				return nil, &ArgumentError{Function: command, Name: a.Name, Err: errMissing}
			}
			v = a.Default
		}
		if err := check(a.Type, a.Validator, v); err != nil {
			return nil, &ArgumentError{Function: command, Name: a.Name, Value: v, Err: err}
		}
		values[a.Name] = v
	}
	for name := range args {
		if !known[name] {
			return nil, &ArgumentError{Function: command, Name: name, Err: fmt.Errorf("unknown argument")}
		}
	}
	return values, nil
}

func resolveSettings(p Plugin, conf map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(p.Settings))
	for _, s := range p.Settings {
		v := s.Default
		if raw, ok := conf[s.ID]; ok {
			v = fmt.Sprint(raw)
		}
		if v != "" {
			if err := check(s.Type, s.Validator, v); err != nil {
				return nil, &ArgumentError{Function: p.Name, Name: s.ID, Value: v, Err: err}
			}
		}
		values[s.ID] = v
	}
	return values, nil
}

func check(t InputType, validator func(string) error, v string) error {
	switch t {
	case TypeNumber:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return errNotNumber
		}
	case TypePath, TypeFile, TypeFolder:
		fi, err := os.Stat(v)
		if err != nil {
			return err
		}
		if t == TypeFile && fi.IsDir() {
			return errNotFile
		}
		if t == TypeFolder && !fi.IsDir() {
			return errNotFolder
		}
	}
	if validator != nil {
		return validator(v)
	}
	return nil
}
