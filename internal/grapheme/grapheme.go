// Package grapheme splits line text into the grapheme clusters that
// document columns count.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Split returns the clusters of text. Empty text yields nil.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, len(text))
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, cluster)
	}
	return out
}

// Join concatenates clusters.
func Join(clusters []string) string {
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return clusters[0]
	}
	return strings.Join(clusters, "")
}

// Class groups clusters for word motion and word selection.
type Class uint8

const (
	Word Class = iota
	Space
	Punct
)

// ClassOf classifies a cluster by its runes: all whitespace is Space, all
// punctuation or symbols is Punct, anything else is Word. "_" is Word.
func ClassOf(cluster string) Class {
	if cluster == "" {
		return Word
	}
	space, punct := true, true
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			space = false
		}
		if r == '_' || !(unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			punct = false
		}
	}
	switch {
	case space:
		return Space
	case punct:
		return Punct
	}
	return Word
}

// Indent measures the leading spaces and tabs of s: the number of clusters
// and the visual width with tab stops every tabSize columns.
func Indent(s string, tabSize int) (clusters, width int) {
	if tabSize <= 0 {
		tabSize = 1
	}
	for _, g := range Split(s) {
		switch g {
		case " ":
			width++
		case "\t":
			width += tabSize - width%tabSize
		default:
			return clusters, width
		}
		clusters++
	}
	return clusters, width
}
