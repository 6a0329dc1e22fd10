package compiler

import (
	"strings"

	"promptcanvas/internal/canvas"
)

// placeholderLabel stands in for an image node with no alt label.
const placeholderLabel = "image reference"

// BuildSimplePrompt flattens the canvas into a comma-joined prompt: every
// text node's text first, then every image node's alt label, both in
// snapshot order. It is the user-editable starting point in the UI and the
// always-available fallback when no reasoning provider is configured.
func BuildSimplePrompt(nodes []canvas.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == canvas.KindText && n.Text != "" {
			parts = append(parts, n.Text)
		}
	}
	for _, n := range nodes {
		if n.Kind != canvas.KindImage {
			continue
		}
		label := n.AltLabel
		if label == "" {
			label = placeholderLabel
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}
