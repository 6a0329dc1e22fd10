package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"promptcanvas/internal/canvas"
	"promptcanvas/internal/compiler"
	"promptcanvas/internal/globalctx"
	llmclient "promptcanvas/internal/llmClient"
)

// Result is the normalized output of any image provider. URL is either a
// remote http(s) URL or an inline data URI.
type Result struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// FallbackPromptText replaces an empty prompt so a generation request can
// never be unrenderable.
const FallbackPromptText = "abstract dreamlike composition, vivid colors, soft volumetric light"

const (
	defaultWidth  = 1024
	defaultHeight = 1024
)

// strategy is one entry in the dispatcher's ordered fallback chain.
type strategy struct {
	name string
	run  func(ctx context.Context, prompt string, refs []canvas.ImageRef) ([]Result, error)
}

// Dispatcher selects an image provider, builds its request and normalizes
// its response. A credentialed rich provider is preferred when present;
// the keyless text-only provider is the terminal link of the chain.
type Dispatcher struct {
	rich    llmclient.ImageGenerator
	fetcher compiler.Fetcher

	width  int
	height int
	seed   func() int64
}

// New builds a dispatcher. rich may be nil (no credential configured);
// fetcher may be nil, which disables reference-image conditioning.
func New(rich llmclient.ImageGenerator, fetcher compiler.Fetcher) *Dispatcher {
	return &Dispatcher{
		rich:    rich,
		fetcher: fetcher,
		width:   defaultWidth,
		height:  defaultHeight,
		seed:    func() int64 { return rand.Int63n(1_000_000) },
	}
}

// Generate runs the fallback chain for prompt, optionally conditioning
// the rich provider on role-tagged reference images. It returns a
// non-empty result list, or an error only when every provider failed.
func (d *Dispatcher) Generate(ctx context.Context, prompt string, refs []canvas.ImageRef) ([]Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = FallbackPromptText
	}

	pin := globalctx.CompileOptionsFrom(ctx).ProviderPin
	chain := d.strategies(pin)
	if len(chain) == 0 {
		return nil, fmt.Errorf("imagegen: no provider matches pin %q", pin)
	}

	var lastErr error
	for _, s := range chain {
		results, err := s.run(ctx, prompt, refs)
		if err != nil {
			log.Printf("imagegen: %s failed: %v", s.name, err)
			lastErr = fmt.Errorf("%s: %w", s.name, err)
			continue
		}
		if len(results) == 0 {
			lastErr = fmt.Errorf("%s: %w", s.name, llmclient.ErrEmptyResult)
			continue
		}
		return results, nil
	}
	return nil, fmt.Errorf("imagegen: all providers failed: %w", lastErr)
}

func (d *Dispatcher) strategies(pin string) []strategy {
	var chain []strategy
	if d.rich != nil && (pin == "" || pin == "gemini") {
		chain = append(chain, strategy{name: d.rich.Name(), run: d.runRich})
	}
	if pin == "" || pin == "pollinations" {
		chain = append(chain, strategy{name: "pollinations", run: d.runKeyless})
	}
	return chain
}

// runRich asks the credentialed provider, conditioning on any fetchable
// reference images. Inline outputs become data URIs.
func (d *Dispatcher) runRich(ctx context.Context, prompt string, refs []canvas.ImageRef) ([]Result, error) {
	req := llmclient.ImageGenRequest{Prompt: prompt}
	if d.fetcher != nil {
		for _, ref := range refs {
			data, mime, err := d.fetcher.Fetch(ctx, ref.URL)
			if err != nil {
				log.Printf("imagegen: skip reference %s: %v", ref.URL, err)
				continue
			}
			req.Images = append(req.Images, llmclient.ImagePart{
				MIMEType: mime,
				Data:     data,
				Marker:   compiler.ImageMarker(string(ref.Role), ref.AltLabel, ref.Note),
			})
		}
	}
	images, err := d.rich.GenerateImages(ctx, req)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(images))
	for _, img := range images {
		u := img.URL
		if u == "" {
			u = "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		}
		results = append(results, Result{URL: u, Prompt: prompt})
	}
	return results, nil
}

// runKeyless builds the text-only provider URL; the URL itself is the
// image resource, so this link of the chain cannot fail.
func (d *Dispatcher) runKeyless(_ context.Context, prompt string, _ []canvas.ImageRef) ([]Result, error) {
	u := BuildPollinationsURL(prompt, d.width, d.height, d.seed())
	return []Result{{URL: u, Prompt: prompt}}, nil
}
