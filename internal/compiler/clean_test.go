package compiler

import "testing"

func TestCleanRefined(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a neon city at dusk", "a neon city at dusk"},
		{"  \n a neon city \n ", "a neon city"},
		{`"a neon city"`, "a neon city"},
		{"'a neon city'", "a neon city"},
		{"Here is the prompt: a neon city", "a neon city"},
		{"Here's a neon city", "a neon city"},
		{"The prompt is: a neon city", "a neon city"},
		{"```\na neon city\n```", "a neon city"},
		{"```text\na neon city\n```", "a neon city"},
		{"", ""},
		{"   ", ""},
		{`""`, ""},
	}
	for _, tc := range cases {
		if got := CleanRefined(tc.in); got != tc.want {
			t.Fatalf("CleanRefined(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
