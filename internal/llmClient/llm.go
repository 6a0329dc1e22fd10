package llmclient

import (
	"context"
	"errors"
)

// ErrEmptyResult indicates the provider responded but produced no usable
// candidate (no text for refine, no image for generation).
var ErrEmptyResult = errors.New("empty result from provider")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// ImagePart is one inline image payload in a provider request, paired with
// a text marker naming its role/label so the model can associate the two.
type ImagePart struct {
	MIMEType string
	Data     []byte
	Marker   string
}

// ReasonRequest is a single text-reasoning call: an instruction block plus
// optional role-tagged image context.
type ReasonRequest struct {
	Instruction     string
	Images          []ImagePart
	Temperature     float32
	MaxOutputTokens int32
}

// Reasoner synthesizes a cohesive prompt from structured context.
// Implementations only focus on the API call itself; fallback policy
// lives in the compiler.
type Reasoner interface {
	Name() string
	RefineText(ctx context.Context, req ReasonRequest) (string, error)
}

// ImageGenRequest is a single image-generation call.
type ImageGenRequest struct {
	Prompt string
	Images []ImagePart
}

// GeneratedImage is one raw provider output. Either inline bytes or a
// remote URL is set, never both.
type GeneratedImage struct {
	MIMEType string
	Data     []byte
	URL      string
}

// ImageGenerator turns a final prompt into one or more images.
type ImageGenerator interface {
	Name() string
	GenerateImages(ctx context.Context, req ImageGenRequest) ([]GeneratedImage, error)
}
