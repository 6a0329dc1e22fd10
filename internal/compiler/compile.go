package compiler

import (
	"context"
	"log"
	"strings"

	"promptcanvas/internal/canvas"
	"promptcanvas/internal/globalctx"
	llmclient "promptcanvas/internal/llmClient"
)

// qualitySuffix is appended to the deterministic fallback so even a bare
// user prompt still produces a usable generation input.
const qualitySuffix = "professional photography, cinematic lighting, 8k resolution, highly detailed, dramatic composition"

// refineTemperature favors creative but controllable variation.
const refineTemperature = 0.8

// Compiler turns a graph snapshot into a final generation prompt. With a
// reasoner configured it assembles structured context and asks the
// provider to synthesize a cohesive prompt; every failure degrades to the
// deterministic fallback. Compile never returns an error.
type Compiler struct {
	reasoner llmclient.Reasoner
	fetcher  Fetcher
}

// New builds a compiler. reasoner may be nil (no provider configured);
// fetcher may be nil, in which case image context is skipped entirely.
func New(reasoner llmclient.Reasoner, fetcher Fetcher) *Compiler {
	return &Compiler{reasoner: reasoner, fetcher: fetcher}
}

// Compile produces the final prompt for the snapshot. The result is always
// a non-empty string.
func (c *Compiler) Compile(ctx context.Context, snap canvas.Snapshot, userPrompt string) string {
	opts := globalctx.CompileOptionsFrom(ctx)
	simple := BuildSimplePrompt(snap.Nodes)
	cctx := AssembleContext(snap, userPrompt, opts)

	if c == nil || c.reasoner == nil || cctx.Empty() {
		// Cost avoidance: nothing to reason about, or nobody to ask.
		if simple != "" {
			return simple
		}
		if up := strings.TrimSpace(userPrompt); up != "" {
			return up
		}
		return qualitySuffix
	}

	req := llmclient.ReasonRequest{
		Instruction:     BuildInstruction(cctx, opts.WordBudget),
		Images:          c.encodeImages(ctx, cctx),
		Temperature:     refineTemperature,
		MaxOutputTokens: int32(opts.WordBudget * 4),
	}

	out, err := c.reasoner.RefineText(ctx, req)
	if err != nil {
		log.Printf("compile: refine via %s failed: %v", c.reasoner.Name(), err)
		return FallbackPrompt(userPrompt, simple)
	}
	if cleaned := CleanRefined(out); cleaned != "" {
		return cleaned
	}
	log.Printf("compile: refine via %s returned nothing usable", c.reasoner.Name())
	return FallbackPrompt(userPrompt, simple)
}

// encodeImages fetches and encodes every bucketed image. A single image
// failing to fetch is skipped, never fatal.
func (c *Compiler) encodeImages(ctx context.Context, cctx Context) []llmclient.ImagePart {
	if c.fetcher == nil {
		return nil
	}
	refs := cctx.Images()
	parts := make([]llmclient.ImagePart, 0, len(refs))
	for _, ref := range refs {
		data, mime, err := c.fetcher.Fetch(ctx, ref.URL)
		if err != nil {
			log.Printf("compile: skip image %s: %v", ref.URL, err)
			continue
		}
		parts = append(parts, llmclient.ImagePart{
			MIMEType: mime,
			Data:     data,
			Marker:   ImageMarker(string(ref.Role), ref.AltLabel, ref.Note),
		})
	}
	return parts
}

// FallbackPrompt is the deterministic degradation used when refinement
// fails: the user's prompt (or the simple-builder output) plus a fixed
// quality suffix. Always non-empty.
func FallbackPrompt(userPrompt, simple string) string {
	base := strings.TrimSpace(userPrompt)
	if base == "" {
		base = strings.TrimSpace(simple)
	}
	if base == "" {
		return qualitySuffix
	}
	return base + ", " + qualitySuffix
}
