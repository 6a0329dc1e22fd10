package asset

import (
	"context"
	"strings"

	"promptcanvas/internal/compiler"
)

// Fetcher resolves both asset:// URLs (through the asset store) and plain
// http(s) URLs (through the wrapped fetcher). It implements
// compiler.Fetcher so the compiler and dispatcher stay storage-agnostic.
type Fetcher struct {
	store Store
	http  compiler.Fetcher
}

func NewFetcher(store Store, httpFetcher compiler.Fetcher) *Fetcher {
	return &Fetcher{store: store, http: httpFetcher}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if strings.HasPrefix(strings.TrimSpace(url), "asset://") {
		projectID, name, err := ParseURL(url)
		if err != nil {
			return nil, "", err
		}
		return f.store.Get(ctx, projectID, name)
	}
	return f.http.Fetch(ctx, url)
}
