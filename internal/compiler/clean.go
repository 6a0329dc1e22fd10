package compiler

import (
	"regexp"
	"strings"
)

var preambleRe = regexp.MustCompile(`(?i)^(here['’]?s|here is|this is|the prompt is|prompt)\s*[:,-]?\s*`)

// CleanRefined normalizes a raw reasoning response into a bare prompt:
// code fences, wrapping quotes and "Here is the prompt:" style preambles
// are stripped. Returns "" when nothing usable remains.
func CleanRefined(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "\n"); i >= 0 && !strings.ContainsAny(s[:i], " .,") {
			// drop a language tag like ```text
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	s = preambleRe.ReplaceAllString(s, "")
	s = strings.Trim(s, "\"'“”‘’ \t\r\n")
	return strings.TrimSpace(s)
}
