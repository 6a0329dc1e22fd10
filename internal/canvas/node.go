package canvas

import "strings"

// Kind discriminates the two node variants on the canvas.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Role is the semantic tag on an image node guiding prompt synthesis.
type Role string

const (
	RoleSubject   Role = "subject"
	RoleScene     Role = "scene"
	RoleStyle     Role = "style"
	RoleReference Role = "reference"
)

// ParseRole maps a stored role string to a valid Role. Unknown or empty
// values degrade to RoleReference rather than failing the compilation.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleSubject:
		return RoleSubject
	case RoleScene:
		return RoleScene
	case RoleStyle:
		return RoleStyle
	case RoleReference:
		return RoleReference
	default:
		return RoleReference
	}
}

// UploadState tracks an image node's upload lifecycle as reported by the editor.
type UploadState string

const (
	UploadIdle      UploadState = "idle"
	UploadUploading UploadState = "uploading"
	UploadFailed    UploadState = "failed"
)

// Position is the node's canvas placement. Irrelevant to compilation but
// round-tripped so the editor's layout survives persistence.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single canvas element. Text fields apply to KindText nodes,
// image fields to KindImage nodes; the zero value of the unused half is
// tolerated everywhere.
type Node struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Position Position `json:"position"`

	Text string   `json:"text,omitempty"`
	Tags []string `json:"tags,omitempty"`

	SourceURL   string      `json:"source_url,omitempty"`
	AltLabel    string      `json:"alt_label,omitempty"`
	Note        string      `json:"note,omitempty"`
	Role        string      `json:"role,omitempty"`
	UploadState UploadState `json:"upload_state,omitempty"`
}

// ResolveRole returns the node's role with the permissive default applied.
func (n Node) ResolveRole() Role {
	return ParseRole(n.Role)
}

// Edge is a labeled directed relationship between two nodes. The compiler
// treats the label as a free-floating fact; endpoints are provenance only
// and may dangle after a node deletion without breaking anything here.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// ImageRef is the compiler's projection of a persisted image node.
// All fields are total: Role is resolved and AltLabel keeps its raw value
// (the simple builder substitutes its own placeholder).
type ImageRef struct {
	URL      string `json:"url"`
	AltLabel string `json:"alt_label,omitempty"`
	Note     string `json:"note,omitempty"`
	Role     Role   `json:"role"`
}

// IsTransientURL reports whether url is a local or in-flight handle that
// no external provider can fetch. Empty and relative handles count as
// transient too.
func IsTransientURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return true
	}
	lower := strings.ToLower(url)
	for _, prefix := range []string{"blob:", "data:", "filesystem:", "file:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return !strings.HasPrefix(lower, "http://") &&
		!strings.HasPrefix(lower, "https://") &&
		!strings.HasPrefix(lower, "asset://")
}
