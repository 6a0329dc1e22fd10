package asset

import (
	"context"
	"testing"
)

func TestURLRoundTrip(t *testing.T) {
	u := URL("p1", "photo.png")
	if u != "asset://p1/photo.png" {
		t.Fatalf("url = %q", u)
	}
	projectID, name, err := ParseURL(u)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if projectID != "p1" || name != "photo.png" {
		t.Fatalf("parsed %q %q", projectID, name)
	}
}

func TestParseURL_Rejects(t *testing.T) {
	for _, raw := range []string{
		"https://cdn/x.png",
		"asset://",
		"asset://only-project",
		"asset:///no-project",
	} {
		if _, _, err := ParseURL(raw); err == nil {
			t.Fatalf("ParseURL(%q) should fail", raw)
		}
	}
}

type memStore struct {
	data map[string][]byte
}

func (m *memStore) Put(_ context.Context, projectID, name string, content []byte, _ string) (string, error) {
	m.data[projectID+"/"+name] = content
	return URL(projectID, name), nil
}

func (m *memStore) Get(_ context.Context, projectID, name string) ([]byte, string, error) {
	b, ok := m.data[projectID+"/"+name]
	if !ok {
		return nil, "", ErrNotFound
	}
	return b, "image/png", nil
}

func (m *memStore) PresignedURL(_ context.Context, projectID, name string) (string, error) {
	return "https://signed/" + projectID + "/" + name, nil
}

type failHTTP struct{ called bool }

func (f *failHTTP) Fetch(_ context.Context, _ string) ([]byte, string, error) {
	f.called = true
	return []byte("remote"), "image/jpeg", nil
}

func TestFetcher_RoutesAssetURLsToStore(t *testing.T) {
	store := &memStore{data: map[string][]byte{"p1/a.png": []byte("local")}}
	httpF := &failHTTP{}
	f := NewFetcher(store, httpF)

	data, mime, err := f.Fetch(context.Background(), "asset://p1/a.png")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "local" || mime != "image/png" {
		t.Fatalf("got %q %q", data, mime)
	}
	if httpF.called {
		t.Fatal("http fetcher should not be hit for asset urls")
	}

	data, mime, err = f.Fetch(context.Background(), "https://cdn/b.jpg")
	if err != nil {
		t.Fatalf("fetch http: %v", err)
	}
	if string(data) != "remote" || mime != "image/jpeg" {
		t.Fatalf("got %q %q", data, mime)
	}
}
