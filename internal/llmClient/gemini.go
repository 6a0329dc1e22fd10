package llmclient

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

const (
	defaultReasonModel = "gemini-2.5-flash"
	defaultImageModel  = "gemini-2.5-flash-image-preview"
)

// GeminiClient is a thin wrapper around the official genai client. It
// implements both Reasoner and ImageGenerator; fallback chains and
// degradation policy are applied by callers.
type GeminiClient struct {
	cli         *genai.Client
	reasonModel string
	imageModel  string
}

func NewGeminiClient(ctx context.Context, apiKey, reasonModel, imageModel string) (*GeminiClient, error) {
	// NOTE: apiKey may be empty; the genai client also reads it from env.
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if strings.TrimSpace(apiKey) != "" {
		cfg.APIKey = strings.TrimSpace(apiKey)
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reasonModel) == "" {
		reasonModel = defaultReasonModel
	}
	if strings.TrimSpace(imageModel) == "" {
		imageModel = defaultImageModel
	}
	return &GeminiClient{cli: cli, reasonModel: reasonModel, imageModel: imageModel}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.reasonModel }
func (g *GeminiClient) Close() error { return nil }

// RefineText sends the instruction plus inline image context in a single
// content and returns the first textual candidate.
func (g *GeminiClient) RefineText(ctx context.Context, req ReasonRequest) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Images)*2+1)
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
		if marker := strings.TrimSpace(img.Marker); marker != "" {
			parts = append(parts, &genai.Part{Text: marker})
		}
	}
	parts = append(parts, &genai.Part{Text: req.Instruction})

	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.reasonModel,
		[]*genai.Content{{Parts: parts}}, cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResult
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && strings.TrimSpace(p.Text) != "" {
			return p.Text, nil
		}
	}
	return "", ErrEmptyResult
}

// GenerateImages asks the image model for image output and collects every
// inline image part across candidates. A text-only answer (the model
// declining to draw) yields ErrEmptyResult so callers can fall back.
func (g *GeminiClient) GenerateImages(ctx context.Context, req ImageGenRequest) ([]GeneratedImage, error) {
	parts := make([]*genai.Part, 0, len(req.Images)*2+1)
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
		if marker := strings.TrimSpace(img.Marker); marker != "" {
			parts = append(parts, &genai.Part{Text: marker})
		}
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	resp, err := g.cli.Models.GenerateContent(ctx, g.imageModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return nil, err
	}

	images := make([]GeneratedImage, 0, 1)
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
				continue
			}
			mime := p.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			images = append(images, GeneratedImage{MIMEType: mime, Data: p.InlineData.Data})
		}
	}
	if len(images) == 0 {
		return nil, ErrEmptyResult
	}
	return images, nil
}
