package canvas

import "testing"

func TestParseRole_KnownRoles(t *testing.T) {
	cases := map[string]Role{
		"subject":   RoleSubject,
		"scene":     RoleScene,
		"style":     RoleStyle,
		"reference": RoleReference,
		" Subject ": RoleSubject,
		"STYLE":     RoleStyle,
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseRole_UnknownDefaultsToReference(t *testing.T) {
	for _, raw := range []string{"", "hero", "background", "???"} {
		if got := ParseRole(raw); got != RoleReference {
			t.Fatalf("ParseRole(%q) = %q, want reference", raw, got)
		}
	}
}

func TestIsTransientURL(t *testing.T) {
	transient := []string{
		"",
		"blob:http://localhost/abc",
		"data:image/png;base64,AAAA",
		"filesystem:http://x/y",
		"file:///tmp/upload.png",
		"upload-pending-123",
	}
	for _, u := range transient {
		if !IsTransientURL(u) {
			t.Fatalf("IsTransientURL(%q) = false, want true", u)
		}
	}
	persisted := []string{
		"https://cdn.example.com/a.png",
		"http://minio:9000/assets/a.png",
		"asset://p1/a.png",
	}
	for _, u := range persisted {
		if IsTransientURL(u) {
			t.Fatalf("IsTransientURL(%q) = true, want false", u)
		}
	}
}
