package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/host"
	"github.com/iw2rmb/lattice/proxy"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file> <plugin.function> [name=value]...",
	Short: "Run a plugin function against a file",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runFunction,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List plugin functions as MCP tool descriptors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := openFile(appConfig, os.DevNull, nil)
		if err != nil {
			return err
		}
		defer ed.Close()
		h, err := newHost(appConfig, ed, nil)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(h.Tools())
	},
}

func init() {
	runCmd.Flags().Bool("write", false, "write the document back when the function changed it")
}

func runFunction(cmd *cobra.Command, args []string) error {
	path, command := args[0], args[1]
	values := make(map[string]string, len(args)-2)
	for _, kv := range args[2:] {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("argument %q is not name=value", kv)
		}
		values[name] = value
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}

	ed, err := openFile(appConfig, path, nil)
	if err != nil {
		return err
	}
	defer ed.Close()
	h, err := newHost(appConfig, ed, host.NewPanel(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := h.Call(ctx, command, values); err != nil {
		return err
	}
	if !write {
		return nil
	}
	return save(ctx, ed, path)
}

// save writes the document to path unless it is unchanged since opening.
func save(ctx context.Context, ed *facade.Editor, path string) error {
	clean, err := ed.IsClean().Await(ctx)
	if err != nil {
		return err
	}
	if clean {
		return nil
	}
	sep := ed.LineSeparator()
	text, err := proxy.Map(sep, func(s string) (string, error) {
		return ed.GetValue(s).Await(ctx)
	}).Await(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return err
	}
	_, err = ed.MarkClean().Await(ctx)
	return err
}
