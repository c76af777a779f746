// Package diagnostics converts between editor annotations and LSP
// diagnostics.
package diagnostics

import (
	"context"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/iw2rmb/lattice/annotate"
	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/lines"
	"github.com/iw2rmb/lattice/proxy"
)

// Source is reported as the origin of exported diagnostics.
const Source = "lattice"

func severity(s annotate.Severity) protocol.DiagnosticSeverity {
	switch s {
	case annotate.Error:
		return protocol.DiagnosticSeverityError
	case annotate.Warning:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityInformation
}

func fromSeverity(s *protocol.DiagnosticSeverity) annotate.Severity {
	if s == nil {
		return annotate.Error
	}
	switch *s {
	case protocol.DiagnosticSeverityError:
		return annotate.Error
	case protocol.DiagnosticSeverityWarning:
		return annotate.Warning
	}
	return annotate.Info
}

// FromAnnotations converts annotation snapshots. Each diagnostic spans its
// whole line. Annotations whose line detached are skipped.
func FromAnnotations(as []facade.Annotation) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := Source
	for _, a := range as {
		line, err := safecast.Conv[uint32](a.Line)
		if err != nil {
			continue
		}
		sev := severity(a.Severity)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line + 1, Character: 0},
			},
			Severity: &sev,
			Source:   &source,
			Message:  a.Message,
		})
	}
	return diagnostics
}

// Collect exports the live annotations of e.
func Collect(ctx context.Context, e *facade.Editor) ([]protocol.Diagnostic, error) {
	as, err := e.Annotations().Await(ctx)
	if err != nil {
		return nil, err
	}
	return FromAnnotations(as), nil
}

// Publish builds the publishDiagnostics notification for uri.
func Publish(ctx context.Context, e *facade.Editor, uri string) (protocol.PublishDiagnosticsParams, error) {
	diagnostics, err := Collect(ctx, e)
	if err != nil {
		return protocol.PublishDiagnosticsParams{}, err
	}
	return protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics}, nil
}

// Apply adds one annotation per diagnostic, on the line its range starts
// at. The additions are queued in order; Apply waits for all of them.
func Apply(ctx context.Context, e *facade.Editor, diagnostics []protocol.Diagnostic) ([]facade.Annotation, error) {
	futures := make([]*proxy.Future[facade.Annotation], 0, len(diagnostics))
	for _, d := range diagnostics {
		n, err := safecast.Conv[int](d.Range.Start.Line)
		if err != nil {
			return nil, err
		}
		ref := lines.At(n)
		switch fromSeverity(d.Severity) {
		case annotate.Error:
			futures = append(futures, e.AddError(ref, d.Message))
		case annotate.Warning:
			futures = append(futures, e.AddWarning(ref, d.Message))
		default:
			futures = append(futures, e.AddInfo(ref, d.Message))
		}
	}
	out := make([]facade.Annotation, 0, len(futures))
	for _, f := range futures {
		a, err := f.Await(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, nil
}
