// Package host loads plugins and runs their functions against the open
// editor.
package host

import (
	"context"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/commonlog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iw2rmb/lattice/facade"
)

// InputType is the kind of value an argument or setting expects.
type InputType string

const (
	TypeString InputType = "string"
	TypeNumber InputType = "number"
	// TypePath accepts any existing path.
	TypePath   InputType = "path"
	TypeFile   InputType = "file"
	TypeFolder InputType = "folder"
)

// Argument describes a value passed to a function when it is called.
type Argument struct {
	Name        string
	Description string
	// Type defaults to TypeString.
	Type     InputType
	Optional bool
	Default  string
	// Validator rejects a value by returning an error.
	Validator func(string) error
}

// Setting describes a per-plugin configuration value, read from the
// plugin's table in the configuration file.
type Setting struct {
	ID          string
	Name        string
	Description string
	Type        InputType
	Placeholder string
	Default     string
	Validator   func(string) error
}

// MenuItem runs the function named by Command ("plugin.function").
type MenuItem struct {
	Name    string
	Command string
}

type Menu struct {
	Name  string
	Items []MenuItem
	Menus []Menu
}

// Params is what a running function receives.
type Params struct {
	// Args holds the validated argument values by name.
	Args map[string]string
	// Settings holds the plugin's settings, defaults applied.
	Settings map[string]string
	Editor   *facade.Editor
	// Output is the function's run-panel stream.
	Output io.Writer
	// Stream is Output itself, for variables and debug controls.
	Stream *Stream
	Log    commonlog.Logger
}

// RunFunc is the body of a plugin function.
type RunFunc func(ctx context.Context, p Params) error

// Function is a callable exported from a plugin.
type Function struct {
	Name        string
	Title       string
	Description string
	Args        []Argument
	// ReadOnly marks functions that never edit the document.
	ReadOnly bool
	Run      RunFunc
}

// Plugin groups the functions, settings and menus one plugin exports.
type Plugin struct {
	Name      string
	Functions []Function
	Settings  []Setting
	Menus     []Menu
}

// Label turns an identifier such as "max-line" into "Max Line".
func Label(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)
	return cases.Title(language.Und).String(name)
}

// Tool describes f as an MCP tool named "plugin.function".
func (f Function) Tool(plugin string) mcp.Tool {
	title := f.Title
	if title == "" {
		title = Label(f.Name)
	}
	return mcp.Tool{
		Name:        plugin + "." + f.Name,
		Title:       title,
		Description: f.Description,
		InputSchema: f.schema(),
		Annotations: &mcp.ToolAnnotations{
			Title:        title,
			ReadOnlyHint: f.ReadOnly,
		},
	}
}

func (f Function) schema() map[string]any {
	properties := map[string]any{}
	required := []any{}
	for _, a := range f.Args {
		prop := map[string]any{"type": jsonType(a.Type)}
		if a.Description != "" {
			prop["description"] = a.Description
		}
		if a.Default != "" {
			prop["default"] = a.Default
		}
		properties[a.Name] = prop
		if !a.Optional && a.Default == "" {
			required = append(required, a.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func jsonType(t InputType) string {
	if t == TypeNumber {
		return "number"
	}
	return "string"
}
