package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/iw2rmb/lattice/config"
	"github.com/iw2rmb/lattice/diagnostics"
	"github.com/iw2rmb/lattice/host"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <file>...",
	Short: "Annotate files with the built-in lint plugin",
	Long:  `Run lint.check over each file and print the resulting annotations, or publish them as LSP diagnostics with --json`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().Bool("json", false, "print textDocument/publishDiagnostics params as JSON")
	lintCmd.Flags().Int("max-line", 0, "override the lint max_line setting")
}

var severityColors = map[protocol.DiagnosticSeverity]*color.Color{
	protocol.DiagnosticSeverityError:       color.New(color.FgRed, color.Bold),
	protocol.DiagnosticSeverityWarning:     color.New(color.FgYellow, color.Bold),
	protocol.DiagnosticSeverityInformation: color.New(color.FgBlue),
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	maxLine, err := cmd.Flags().GetInt("max-line")
	if err != nil {
		return fmt.Errorf("failed to get max-line flag: %w", err)
	}
	if maxLine > 0 {
		if cfg.Plugins == nil {
			cfg.Plugins = map[string]map[string]any{}
		}
		if cfg.Plugins["lint"] == nil {
			cfg.Plugins["lint"] = map[string]any{}
		}
		cfg.Plugins["lint"]["max_line"] = strconv.Itoa(maxLine)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var published []protocol.PublishDiagnosticsParams
	errorCount := 0
	for _, path := range args {
		params, err := lintFile(ctx, cfg, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, d := range params.Diagnostics {
			if d.Severity != nil && *d.Severity == protocol.DiagnosticSeverityError {
				errorCount++
			}
		}
		published = append(published, params)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(published); err != nil {
			return err
		}
	} else {
		for i, params := range published {
			printDiagnostics(out, args[i], params.Diagnostics)
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d errors", errorCount)
	}
	return nil
}

func lintFile(ctx context.Context, cfg config.Config, path string) (protocol.PublishDiagnosticsParams, error) {
	ed, err := openFile(cfg, path, nil)
	if err != nil {
		return protocol.PublishDiagnosticsParams{}, err
	}
	defer ed.Close()

	h, err := newHost(cfg, ed, nil)
	if err != nil {
		return protocol.PublishDiagnosticsParams{}, err
	}
	if _, err := h.Call(ctx, "lint.check", nil); err != nil {
		return protocol.PublishDiagnosticsParams{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return diagnostics.Publish(ctx, ed, "file://"+filepath.ToSlash(abs))
}

func printDiagnostics(w io.Writer, path string, ds []protocol.Diagnostic) {
	for _, d := range ds {
		sev := protocol.DiagnosticSeverityInformation
		if d.Severity != nil {
			sev = *d.Severity
		}
		label := host.Label(severityName(sev))
		c, ok := severityColors[sev]
		if !ok {
			c = color.New()
		}
		fmt.Fprintf(w, "%s:%d: %s: %s\n", path, d.Range.Start.Line+1, c.Sprint(label), d.Message)
	}
}

func severityName(s protocol.DiagnosticSeverity) string {
	switch s {
	case protocol.DiagnosticSeverityError:
		return "error"
	case protocol.DiagnosticSeverityWarning:
		return "warning"
	case protocol.DiagnosticSeverityHint:
		return "hint"
	}
	return "info"
}
