package jsonutil

import (
	"strings"
	"testing"
)

func TestMarshalNoEscape_KeepsAngleBrackets(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"prompt": "a <neon> city & rain"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `<`) || strings.Contains(string(b), `&`) {
		t.Fatalf("escaped output: %s", b)
	}
	if strings.HasSuffix(string(b), "\n") {
		t.Fatalf("trailing newline kept: %q", b)
	}
}

func TestUnmarshalFlex_Direct(t *testing.T) {
	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := UnmarshalFlex([]byte(`{"prompt":"x"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Prompt != "x" {
		t.Fatalf("prompt = %q", out.Prompt)
	}
}

func TestUnmarshalFlex_DoubleEncoded(t *testing.T) {
	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := UnmarshalFlex([]byte(`"{\"prompt\":\"x\"}"`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Prompt != "x" {
		t.Fatalf("prompt = %q", out.Prompt)
	}
}

func TestUnmarshalFlex_InvalidStaysError(t *testing.T) {
	var out map[string]any
	if err := UnmarshalFlex([]byte(`{broken`), &out); err == nil {
		t.Fatal("want error")
	}
}
