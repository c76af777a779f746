package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/iw2rmb/lattice/config"
	"github.com/iw2rmb/lattice/proxy"
)

func TestPrintDiagnostics(t *testing.T) {
	color.NoColor = true
	warn := protocol.DiagnosticSeverityWarning
	var out bytes.Buffer
	printDiagnostics(&out, "a.txt", []protocol.Diagnostic{
		{Range: protocol.Range{Start: protocol.Position{Line: 2}}, Severity: &warn, Message: "trailing whitespace"},
		{Range: protocol.Range{Start: protocol.Position{Line: 0}}, Message: "no severity"},
	})
	want := "a.txt:3: Warning: trailing whitespace\na.txt:1: Info: no severity\n"
	if got := out.String(); got != want {
		t.Fatalf("got=%q, want %q", got, want)
	}
}

func TestLintFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("fine\ntrailing \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	params, err := lintFile(ctx, config.Default(), path)
	if err != nil {
		t.Fatalf("lintFile: %v", err)
	}
	if !strings.HasPrefix(params.URI, "file://") || !strings.HasSuffix(params.URI, "/a.txt") {
		t.Fatalf("uri=%q", params.URI)
	}
	if len(params.Diagnostics) != 1 || params.Diagnostics[0].Range.Start.Line != 1 {
		t.Fatalf("diagnostics=%+v", params.Diagnostics)
	}
}

func TestSave_SkipsCleanDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.txt")
	if err := os.WriteFile(path, []byte("one\r\ntwo"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ed, err := openFile(config.Default(), path, nil)
	if err != nil {
		t.Fatalf("openFile: %v", err)
	}
	defer ed.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := save(ctx, ed, path); err != nil {
		t.Fatalf("save clean: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clean document was written")
	}

	ed.ReplaceRange("zero\n", proxy.Pos{}, proxy.Pos{}, "")
	if err := save(ctx, ed, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "zero") || !strings.Contains(string(data), "two") {
		t.Fatalf("saved=%q", data)
	}
	clean, err := ed.IsClean().Await(ctx)
	if err != nil || !clean {
		t.Fatalf("clean=%v err=%v", clean, err)
	}
}

func TestLastLine(t *testing.T) {
	for in, want := range map[string]string{
		"paused at line 2: b\nfinished\n": "finished",
		"one":                             "one",
		"":                                "",
	} {
		if got := lastLine(in); got != want {
			t.Fatalf("lastLine(%q)=%q, want %q", in, got, want)
		}
	}
}
