package utils

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// UIDGenerator mints stable node IDs for imported snapshots whose nodes
// arrive without one, and resolves collisions against IDs already in use.
// Shape: "<slug>-<hash>" (or "<slug>-<hash>-N" on collision).
type UIDGenerator struct {
	used    map[string]struct{}
	counter map[string]int
}

// NewUIDGenerator creates a generator with the given IDs pre-reserved.
func NewUIDGenerator(existing ...string) *UIDGenerator {
	g := &UIDGenerator{
		used:    make(map[string]struct{}, len(existing)+8),
		counter: make(map[string]int, len(existing)+8),
	}
	for _, uid := range existing {
		uid = strings.TrimSpace(uid)
		if uid == "" {
			continue
		}
		g.used[uid] = struct{}{}
	}
	return g
}

// Generate returns a unique ID derived from seed (typically the node's
// label or kind).
func (g *UIDGenerator) Generate(seed string) string {
	if g == nil {
		g = NewUIDGenerator()
	}
	base := baseUID(seed)
	if _, ok := g.used[base]; !ok {
		g.used[base] = struct{}{}
		g.counter[base] = 1
		return base
	}
	n := g.counter[base]
	if n < 1 {
		n = 1
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, exists := g.used[candidate]; exists {
			continue
		}
		g.used[candidate] = struct{}{}
		g.counter[base] = n
		return candidate
	}
}

func baseUID(seed string) string {
	seed = strings.TrimSpace(seed)
	slug := slugifyASCII(seed)
	if slug == "" {
		slug = "node"
	}
	return fmt.Sprintf("%s-%s", slug, shortHashHex(seed))
}

func shortHashHex(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", uint32(h.Sum64()&0xffffffff))
}

func slugifyASCII(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
