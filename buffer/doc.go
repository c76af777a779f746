// Package buffer implements the document model wrapped by the editor proxy.
//
// Coordinates are 0-based (Row, GraphemeCol) in grapheme clusters.
// Ranges are half-open selections in document coordinates: [Start, End).
//
// Lines have stable identity: a LineHandle keeps referring to the same line
// while edits above it renumber the document, and becomes detached once its
// line is deleted. Markers, line widgets, gutter markers and line classes are
// layered on top of that identity.
//
// A Buffer is not safe for concurrent use. The proxy package serializes all
// access through a single execution path.
package buffer
