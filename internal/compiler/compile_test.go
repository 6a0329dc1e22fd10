package compiler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"promptcanvas/internal/canvas"
	llmclient "promptcanvas/internal/llmClient"
)

type stubReasoner struct {
	out   string
	err   error
	calls int
	last  llmclient.ReasonRequest
}

func (s *stubReasoner) Name() string { return "stub" }

func (s *stubReasoner) RefineText(_ context.Context, req llmclient.ReasonRequest) (string, error) {
	s.calls++
	s.last = req
	return s.out, s.err
}

type stubFetcher struct {
	fail map[string]bool
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, string, error) {
	if s.fail[url] {
		return nil, "", errors.New("boom")
	}
	return []byte{0x89, 0x50}, "image/png", nil
}

func sceneSnapshot() canvas.Snapshot {
	return canvas.Snapshot{Nodes: []canvas.Node{
		{ID: "t1", Kind: canvas.KindText, Text: "cyberpunk city"},
		{ID: "i1", Kind: canvas.KindImage, SourceURL: "https://cdn/x.png", AltLabel: "rainy street", Role: "scene"},
	}}
}

func TestCompile_NoReasonerReturnsSimplePrompt(t *testing.T) {
	c := New(nil, nil)
	got := c.Compile(context.Background(), sceneSnapshot(), "")
	if got != "cyberpunk city, rainy street" {
		t.Fatalf("got %q", got)
	}
}

func TestCompile_EmptyContextSkipsProvider(t *testing.T) {
	r := &stubReasoner{out: "should not be used"}
	c := New(r, &stubFetcher{})
	got := c.Compile(context.Background(), canvas.Snapshot{}, "my own words")
	if r.calls != 0 {
		t.Fatalf("reasoner called %d times for empty context", r.calls)
	}
	if got != "my own words" {
		t.Fatalf("got %q", got)
	}
}

func TestCompile_EmptyEverythingStillNonEmpty(t *testing.T) {
	c := New(nil, nil)
	if got := c.Compile(context.Background(), canvas.Snapshot{}, ""); got == "" {
		t.Fatal("compile returned empty string")
	}
}

func TestCompile_SuccessReturnsCleanedResult(t *testing.T) {
	r := &stubReasoner{out: `Here is the prompt: "a drenched neon avenue"`}
	c := New(r, &stubFetcher{})
	got := c.Compile(context.Background(), sceneSnapshot(), "neon")
	if got != "a drenched neon avenue" {
		t.Fatalf("got %q", got)
	}
	if r.calls != 1 {
		t.Fatalf("reasoner calls = %d", r.calls)
	}
}

func TestCompile_ProviderErrorFallsBackWithUserPrompt(t *testing.T) {
	r := &stubReasoner{err: errors.New("status 500")}
	c := New(r, &stubFetcher{})
	got := c.Compile(context.Background(), sceneSnapshot(), "neon alley")
	if !strings.Contains(got, "neon alley") {
		t.Fatalf("fallback should contain user prompt, got %q", got)
	}
	if !strings.Contains(got, "cinematic lighting") {
		t.Fatalf("fallback should carry quality suffix, got %q", got)
	}
}

func TestCompile_EmptyProviderResultFallsBack(t *testing.T) {
	r := &stubReasoner{out: "  \"\"  "}
	c := New(r, &stubFetcher{})
	got := c.Compile(context.Background(), sceneSnapshot(), "")
	if !strings.Contains(got, "cyberpunk city, rainy street") {
		t.Fatalf("fallback should use simple prompt, got %q", got)
	}
}

func TestCompile_SingleImageFailureIsSkippedNotFatal(t *testing.T) {
	snap := sceneSnapshot()
	snap.Nodes = append(snap.Nodes, canvas.Node{
		ID: "i2", Kind: canvas.KindImage, SourceURL: "https://cdn/broken.png", Role: "subject",
	})
	r := &stubReasoner{out: "refined"}
	c := New(r, &stubFetcher{fail: map[string]bool{"https://cdn/broken.png": true}})
	got := c.Compile(context.Background(), snap, "")
	if got != "refined" {
		t.Fatalf("got %q", got)
	}
	if len(r.last.Images) != 1 {
		t.Fatalf("want 1 encoded image after skip, got %d", len(r.last.Images))
	}
}

func TestCompile_DeterministicWithFixedProvider(t *testing.T) {
	r := &stubReasoner{out: "fixed response"}
	c := New(r, &stubFetcher{})
	a := c.Compile(context.Background(), sceneSnapshot(), "x")
	b := c.Compile(context.Background(), sceneSnapshot(), "x")
	if a != b {
		t.Fatalf("compile not deterministic: %q vs %q", a, b)
	}
}

func TestCompile_RequestCarriesRoleMarkers(t *testing.T) {
	r := &stubReasoner{out: "ok"}
	c := New(r, &stubFetcher{})
	c.Compile(context.Background(), sceneSnapshot(), "")
	if len(r.last.Images) != 1 {
		t.Fatalf("images = %d", len(r.last.Images))
	}
	marker := r.last.Images[0].Marker
	if !strings.Contains(marker, "scene") || !strings.Contains(marker, "rainy street") {
		t.Fatalf("marker missing role/label: %q", marker)
	}
}

func TestBuildInstruction_ConditionalRoleGuidance(t *testing.T) {
	withScene := BuildInstruction(Context{
		SceneImages: []canvas.ImageRef{{URL: "u", Role: canvas.RoleScene}},
	}, 150)
	if !strings.Contains(withScene, "Place the scene") {
		t.Fatalf("scene guidance missing:\n%s", withScene)
	}
	if strings.Contains(withScene, "focal point") {
		t.Fatalf("subject guidance should be absent:\n%s", withScene)
	}

	withSubject := BuildInstruction(Context{
		SubjectImages: []canvas.ImageRef{{URL: "u", Role: canvas.RoleSubject}},
	}, 150)
	if !strings.Contains(withSubject, "focal point") {
		t.Fatalf("subject guidance missing:\n%s", withSubject)
	}
	if strings.Contains(withSubject, "Place the scene") {
		t.Fatalf("scene guidance should be absent:\n%s", withSubject)
	}
}

func TestBuildInstruction_UserIntentPrioritized(t *testing.T) {
	out := BuildInstruction(Context{UserPrompt: "make it rain"}, 100)
	if !strings.Contains(out, "Fulfil the user's vision") {
		t.Fatalf("user intent block missing:\n%s", out)
	}
	if !strings.Contains(out, "make it rain") {
		t.Fatalf("user prompt missing:\n%s", out)
	}
}

func TestFallbackPrompt(t *testing.T) {
	if got := FallbackPrompt("user", "simple"); !strings.HasPrefix(got, "user, ") {
		t.Fatalf("got %q", got)
	}
	if got := FallbackPrompt("", "simple"); !strings.HasPrefix(got, "simple, ") {
		t.Fatalf("got %q", got)
	}
	if got := FallbackPrompt("", ""); got == "" {
		t.Fatal("fallback must never be empty")
	}
}
