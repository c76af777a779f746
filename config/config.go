// Package config loads lattice.toml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/iw2rmb/lattice/breakpoint"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/proxy"
)

// FileName is the configuration file looked up by the CLI.
const FileName = "lattice.toml"

// ErrConfiguration indicates an invalid or incomplete configuration.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	Editor  EditorConfig              `toml:"editor"`
	Proxy   ProxyConfig               `toml:"proxy"`
	Log     LogConfig                 `toml:"log"`
	Plugins map[string]map[string]any `toml:"plugins"`
}

type EditorConfig struct {
	TabSize        int    `toml:"tab_size"`
	IndentUnit     int    `toml:"indent_unit"`
	IndentWithTabs bool   `toml:"indent_with_tabs"`
	LineNumbers    bool   `toml:"line_numbers"`
	ReadOnly       bool   `toml:"read_only"`
	Mode           string `toml:"mode"`
	// HistoryLimit bounds the undo history. Zero keeps the buffer default.
	HistoryLimit int `toml:"history_limit"`
}

type ProxyConfig struct {
	// QueueSize bounds the operations accepted but not yet run.
	QueueSize int `toml:"queue_size"`
}

type LogConfig struct {
	// Verbosity follows commonlog: 0 is quiet, higher is chattier.
	Verbosity int `toml:"verbosity"`
	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	d := editor.DefaultOptions()
	return Config{
		Editor: EditorConfig{
			TabSize:     d.TabSize,
			IndentUnit:  d.IndentUnit,
			LineNumbers: d.LineNumbers,
		},
		Proxy: ProxyConfig{QueueSize: proxy.DefaultQueueSize},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return finish(path, cfg, meta)
}

// Parse reads TOML text over the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return finish("", cfg, meta)
}

func finish(path string, cfg Config, meta toml.MetaData) (Config, error) {
	if und := meta.Undecoded(); len(und) > 0 {
		keys := make([]string, 0, len(und))
		for _, k := range und {
			if len(k) > 0 && k[0] == "plugins" {
				continue
			}
			keys = append(keys, k.String())
		}
		if len(keys) > 0 {
			return Config{}, withPath(path, fmt.Errorf("%w: unknown keys: %s", ErrConfiguration, strings.Join(keys, ", ")))
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, withPath(path, err)
	}
	return cfg, nil
}

func withPath(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

// Validate checks value ranges. It returns ErrConfiguration naming every
// invalid field.
func (c *Config) Validate() error {
	var invalid []string

	if c.Editor.TabSize <= 0 {
		invalid = append(invalid, "editor.tab_size")
	}
	if c.Editor.IndentUnit <= 0 {
		invalid = append(invalid, "editor.indent_unit")
	}
	if c.Editor.HistoryLimit < 0 {
		invalid = append(invalid, "editor.history_limit")
	}
	if c.Proxy.QueueSize < 0 {
		invalid = append(invalid, "proxy.queue_size")
	}
	if c.Log.Verbosity < 0 {
		invalid = append(invalid, "log.verbosity")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("%w: invalid fields: %s",
			ErrConfiguration, strings.Join(invalid, ", "))
	}
	return nil
}

// EditorOptions converts the [editor] table. The breakpoint gutter is
// always shown.
func (c *Config) EditorOptions() editor.Options {
	return editor.Options{
		TabSize:        c.Editor.TabSize,
		IndentUnit:     c.Editor.IndentUnit,
		IndentWithTabs: c.Editor.IndentWithTabs,
		LineNumbers:    c.Editor.LineNumbers,
		ReadOnly:       c.Editor.ReadOnly,
		Mode:           c.Editor.Mode,
		Gutters:        []string{breakpoint.Gutter},
		HistoryLimit:   c.Editor.HistoryLimit,
	}
}

// ProxyOptions converts the [proxy] table. exec may be nil.
func (c *Config) ProxyOptions(exec editor.Executor) proxy.Options {
	return proxy.Options{QueueSize: c.Proxy.QueueSize, Executor: exec}
}

// PluginSettings returns the [plugins.<name>] table, or nil.
func (c *Config) PluginSettings(name string) map[string]any {
	return c.Plugins[name]
}
