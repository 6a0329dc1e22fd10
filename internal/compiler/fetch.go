package compiler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// maxImageBytes bounds a single fetched image; anything larger is refused
// rather than shipped to the reasoning provider.
const maxImageBytes = 8 << 20

// Fetcher resolves an image URL to raw bytes plus a mime type.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, mimeType string, err error)
}

// HTTPFetcher fetches http(s) image URLs.
type HTTPFetcher struct {
	http *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{http: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("fetch image: larger than %d bytes", maxImageBytes)
	}
	mime := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

type fetchedImage struct {
	data []byte
	mime string
}

// CachingFetcher fronts another fetcher with an LRU cache so repeated
// compilations of the same canvas don't re-download unchanged images.
type CachingFetcher struct {
	next  Fetcher
	cache *lru.Cache[string, fetchedImage]
}

func NewCachingFetcher(next Fetcher, size int) (*CachingFetcher, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, fetchedImage](size)
	if err != nil {
		return nil, err
	}
	return &CachingFetcher{next: next, cache: cache}, nil
}

func (f *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if hit, ok := f.cache.Get(url); ok {
		return hit.data, hit.mime, nil
	}
	data, mime, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}
	f.cache.Add(url, fetchedImage{data: data, mime: mime})
	return data, mime, nil
}
