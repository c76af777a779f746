package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/proxy"
)

func newHost(t *testing.T, text string, opts Options) *Host {
	t.Helper()
	e := facade.New(editor.NewCore(buffer.New(text, buffer.Options{}), editor.Options{}), proxy.Options{})
	t.Cleanup(e.Close)
	return New(e, opts)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func echoPlugin() Plugin {
	return Plugin{
		Name: "echo",
		Functions: []Function{{
			Name: "say",
			Args: []Argument{
				{Name: "text"},
				{Name: "times", Type: TypeNumber, Default: "1"},
				{Name: "suffix", Optional: true},
			},
			ReadOnly: true,
			Run: func(_ context.Context, p Params) error {
				n := 0
				fmt.Sscan(p.Args["times"], &n)
				for i := 0; i < n; i++ {
					fmt.Fprintf(p.Output, "%s%s%s\n", p.Settings["prefix"], p.Args["text"], p.Args["suffix"])
				}
				return nil
			},
		}},
		Settings: []Setting{{ID: "prefix", Name: "Prefix", Default: "> "}},
		Menus:    []Menu{{Name: "Echo", Items: []MenuItem{{Name: "Say", Command: "echo.say"}}}},
	}
}

func TestHost_CallWritesToItsStream(t *testing.T) {
	var sink bytes.Buffer
	h := newHost(t, "", Options{Panel: NewPanel(&sink)})
	if err := h.Register(echoPlugin()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	out, err := h.Call(testContext(t), "echo.say", map[string]string{"text": "hi", "times": "2"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got, want := out.Output(), "> hi\n> hi\n"; got != want {
		t.Fatalf("output=%q, want %q", got, want)
	}
	if sink.String() != out.Output() {
		t.Fatalf("sink=%q", sink.String())
	}
	if s, ok := h.Panel().ByName("echo.say"); !ok || s != out {
		t.Fatalf("ByName did not find the stream")
	}
}

func TestHost_SettingsFromConfig(t *testing.T) {
	h := newHost(t, "", Options{Settings: map[string]map[string]any{"echo": {"prefix": int64(7)}}})
	if err := h.Register(echoPlugin()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	out, err := h.Call(testContext(t), "echo.say", map[string]string{"text": "x"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got := out.Output(); got != "7x\n" {
		t.Fatalf("output=%q", got)
	}
}

func TestHost_ArgumentErrors(t *testing.T) {
	dir := t.TempDir()
	h := newHost(t, "", Options{})
	p := echoPlugin()
	p.Functions = append(p.Functions, Function{
		Name: "open",
		Args: []Argument{
			{Name: "file", Type: TypeFile},
			{Name: "word", Optional: true, Validator: func(v string) error {
				if strings.ContainsAny(v, " \t") {
					return errors.New("must be one word")
				}
				return nil
			}},
		},
		Run: func(context.Context, Params) error { return nil },
	})
	if err := h.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name    string
		command string
		args    map[string]string
		arg     string
	}{
		{"missing", "echo.say", map[string]string{}, "text"},
		{"number", "echo.say", map[string]string{"text": "a", "times": "many"}, "times"},
		{"unknown", "echo.say", map[string]string{"text": "a", "loud": "yes"}, "loud"},
		{"folder is not a file", "echo.open", map[string]string{"file": dir}, "file"},
		{"validator", "echo.open", map[string]string{"file": "host_test.go", "word": "two words"}, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Call(testContext(t), tt.command, tt.args)
			var ae *ArgumentError
			if !errors.As(err, &ae) || !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err=%v, want argument error", err)
			}
			if ae.Name != tt.arg {
				t.Fatalf("name=%q, want %q", ae.Name, tt.arg)
			}
		})
	}

	if _, err := h.Call(testContext(t), "echo.open", map[string]string{"file": "host_test.go"}); err != nil {
		t.Fatalf("valid call: %v", err)
	}
}

func TestHost_RegisterRejects(t *testing.T) {
	h := newHost(t, "", Options{Settings: map[string]map[string]any{"n": {"limit": "lots"}}})
	noop := func(context.Context, Params) error { return nil }

	bad := []Plugin{
		{Name: ""},
		{Name: "a.b"},
		{Name: "x", Functions: []Function{{Name: "f"}}},
		{Name: "x", Functions: []Function{{Name: "f", Run: noop}, {Name: "f", Run: noop}}},
	}
	for i, p := range bad {
		if err := h.Register(p); !errors.Is(err, ErrInvalidPlugin) {
			t.Fatalf("#%d: err=%v, want invalid plugin", i, err)
		}
	}
	err := h.Register(Plugin{Name: "n", Settings: []Setting{{ID: "limit", Type: TypeNumber}}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err=%v, want invalid setting", err)
	}
	if len(h.Plugins()) != 0 {
		t.Fatalf("plugins=%v", h.Plugins())
	}
}

func TestHost_UnknownFunction(t *testing.T) {
	h := newHost(t, "", Options{})
	if err := h.Register(echoPlugin()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, cmd := range []string{"echo", "echo.shout", "nope.say"} {
		if _, err := h.Call(testContext(t), cmd, nil); !errors.Is(err, ErrUnknownFunction) {
			t.Fatalf("%s: err=%v", cmd, err)
		}
	}
	h.Unregister("echo")
	if _, err := h.Call(testContext(t), "echo.say", map[string]string{"text": "a"}); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("after unregister: err=%v", err)
	}
}

func TestHost_PanicBecomesError(t *testing.T) {
	h := newHost(t, "", Options{})
	err := h.Register(Plugin{Name: "p", Functions: []Function{{
		Name: "boom",
		Run:  func(context.Context, Params) error { panic("kaboom") },
	}}})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := h.Call(testContext(t), "p.boom", nil); err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("err=%v", err)
	}
}

func TestHost_ToolsAndMenus(t *testing.T) {
	h := newHost(t, "", Options{})
	if err := h.Register(echoPlugin()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tools := h.Tools()
	if len(tools) != 1 {
		t.Fatalf("tools=%d", len(tools))
	}
	tool := tools[0]
	if tool.Name != "echo.say" || tool.Title != "Say" {
		t.Fatalf("tool=%s %q", tool.Name, tool.Title)
	}
	if tool.Annotations == nil || !tool.Annotations.ReadOnlyHint {
		t.Fatalf("annotations=%+v", tool.Annotations)
	}
	schema := tool.InputSchema.(map[string]any)
	required := schema["required"].([]any)
	if len(required) != 1 || required[0] != "text" {
		t.Fatalf("required=%v", required)
	}
	if menus := h.Menus(); len(menus) != 1 || menus[0].Items[0].Command != "echo.say" {
		t.Fatalf("menus=%+v", menus)
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"max-line":        "Max Line",
		"toggle_all":      "Toggle All",
		"breakpoints.set": "Breakpoints Set",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Fatalf("Label(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestHost_RunAllKeepsPerCallOrder(t *testing.T) {
	h := newHost(t, "", Options{})
	appendLine := func(ctx context.Context, p Params) error {
		for i := 0; i < 20; i++ {
			text := fmt.Sprintf("%s%d\n", p.Args["tag"], i)
			if _, err := proxy.Do(p.Editor.Proxy, "append", func(c *editor.Core) error {
				doc := c.Doc()
				last := doc.LineCount() - 1
				line, err := doc.Line(last)
				if err != nil {
					return err
				}
				end := buffer.Pos{Row: last, GraphemeCol: len(line)}
				return doc.ReplaceRange(text, end, end)
			}).Await(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	err := h.Register(Plugin{Name: "w", Functions: []Function{{
		Name: "append",
		Args: []Argument{{Name: "tag"}},
		Run:  appendLine,
	}}})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	calls := []Invocation{
		{Command: "w.append", Args: map[string]string{"tag": "a"}},
		{Command: "w.append", Args: map[string]string{"tag": "b"}},
	}
	if err := h.RunAll(testContext(t), calls); err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	value, err := h.Editor().GetValue("\n").Await(testContext(t))
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	next := map[byte]int{}
	for _, line := range strings.Split(strings.TrimSuffix(value, "\n"), "\n") {
		tag, n := line[0], 0
		fmt.Sscan(line[1:], &n)
		if n != next[tag] {
			t.Fatalf("line %q out of order, want %c%d", line, tag, next[tag])
		}
		next[tag]++
	}
	if next['a'] != 20 || next['b'] != 20 {
		t.Fatalf("counts=%v", next)
	}
	if len(h.Panel().Streams()) != 2 {
		t.Fatalf("streams=%d", len(h.Panel().Streams()))
	}
}
