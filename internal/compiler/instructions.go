package compiler

import (
	"bytes"
	"fmt"
	"strings"
)

// BuildInstruction renders the reasoning instruction block. The phrasing
// shifts with which role buckets are populated: guidance for a role is
// only emitted when images of that role exist, so the model is never told
// to "place the scene" without a scene to place.
func BuildInstruction(ctx Context, wordBudget int) string {
	var buf bytes.Buffer

	writeSection(&buf, "TASK", fmt.Sprintf(
		"Write a single vivid image-generation prompt of roughly %d words that merges everything below into one coherent visual description.",
		wordBudget))

	var guidance []string
	if len(ctx.SubjectImages) > 0 {
		guidance = append(guidance, "Make the pictured subject the focal point of the image.")
	}
	if len(ctx.SceneImages) > 0 {
		guidance = append(guidance, "Place the scene: set everything within the environment shown in the scene images.")
	}
	if len(ctx.StyleImages) > 0 {
		guidance = append(guidance, "Match the artistic style, palette and mood of the style images.")
	}
	if len(ctx.ReferenceImages) > 0 {
		guidance = append(guidance, "Use the remaining reference images as loose visual inspiration.")
	}
	writeSection(&buf, "IMAGE_GUIDANCE", formatList(guidance))

	writeSection(&buf, "DESCRIPTORS", formatList(ctx.TextDescriptors))
	writeSection(&buf, "RELATIONSHIPS", formatList(ctx.Relationships))

	if up := strings.TrimSpace(ctx.UserPrompt); up != "" {
		writeSection(&buf, "USER_INTENT",
			"The user's own words take priority over everything above. Fulfil the user's vision:\n"+up)
	}

	writeSection(&buf, "OUTPUT_FORMAT",
		"Respond with the prompt text only. No preamble, no quotes, no markdown.")

	return strings.TrimSpace(buf.String()) + "\n"
}

// ImageMarker is the text label emitted next to each inline image so the
// model can associate image, role and description.
func ImageMarker(role string, altLabel, note string) string {
	label := strings.TrimSpace(altLabel)
	if label == "" {
		label = placeholderLabel
	}
	marker := fmt.Sprintf("[%s image] %s", role, label)
	if note = strings.TrimSpace(note); note != "" {
		marker += " — " + note
	}
	return marker
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
