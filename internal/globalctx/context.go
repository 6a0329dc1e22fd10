package globalctx

import (
	"context"
	"strings"
)

type ctxKeyCompileOptions struct{}

const (
	// DefaultPerRoleCap bounds how many images of one role reach the
	// reasoning provider. Tunable, not a contract.
	DefaultPerRoleCap = 2
	// DefaultWordBudget is the target length of a refined prompt.
	DefaultWordBudget = 150
)

// CompileOptions carries the request-scoped tunables of a compilation:
// bucket caps, refined-prompt word budget, and an optional provider pin
// for the generation dispatcher.
type CompileOptions struct {
	// PerRoleCap limits images per role bucket. <=0 means default.
	PerRoleCap int
	// TotalCap, when >0, additionally bounds the overall image count
	// after per-role capping (flat-cap variant).
	TotalCap int
	// WordBudget is the requested refined-prompt length in words. <=0 means default.
	WordBudget int
	// ProviderPin, when set, restricts generation to the named provider.
	ProviderPin string
}

// Normalized returns the options with defaults applied.
func (o CompileOptions) Normalized() CompileOptions {
	if o.PerRoleCap <= 0 {
		o.PerRoleCap = DefaultPerRoleCap
	}
	if o.TotalCap < 0 {
		o.TotalCap = 0
	}
	if o.WordBudget <= 0 {
		o.WordBudget = DefaultWordBudget
	}
	o.ProviderPin = strings.ToLower(strings.TrimSpace(o.ProviderPin))
	return o
}

func WithCompileOptions(ctx context.Context, opts CompileOptions) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyCompileOptions{}, opts.Normalized())
}

// CompileOptionsFrom returns the options carried by ctx, or the defaults.
func CompileOptionsFrom(ctx context.Context) CompileOptions {
	if ctx != nil {
		if v := ctx.Value(ctxKeyCompileOptions{}); v != nil {
			if opts, ok := v.(CompileOptions); ok {
				return opts.Normalized()
			}
		}
	}
	return CompileOptions{}.Normalized()
}
