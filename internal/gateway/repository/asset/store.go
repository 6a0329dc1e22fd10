package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the named asset does not exist in the bucket.
var ErrNotFound = errors.New("asset not found")

// Store holds uploaded image bytes and hands out stable URLs the editor
// writes into a node's source_url.
type Store interface {
	// Put stores content and returns the stable asset:// URL.
	Put(ctx context.Context, projectID, name string, content []byte, contentType string) (string, error)
	// Get returns the raw bytes and content type for a stored asset.
	Get(ctx context.Context, projectID, name string) ([]byte, string, error)
	// PresignedURL returns a short-lived direct URL for the UI.
	PresignedURL(ctx context.Context, projectID, name string) (string, error)
}

// URL builds the stable asset URL for a stored object.
func URL(projectID, name string) string {
	return "asset://" + strings.TrimSpace(projectID) + "/" + strings.TrimLeft(strings.TrimSpace(name), "/")
}

// ParseURL splits an asset:// URL back into project ID and object name.
func ParseURL(raw string) (projectID, name string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "asset://")
	if !ok {
		return "", "", fmt.Errorf("not an asset url: %q", raw)
	}
	projectID, name, ok = strings.Cut(rest, "/")
	if !ok || projectID == "" || name == "" {
		return "", "", fmt.Errorf("malformed asset url: %q", raw)
	}
	return projectID, name, nil
}
