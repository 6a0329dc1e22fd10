package canvas

// Snapshot is the point-in-time graph the compiler reads. Handlers clone
// the stored graph before compiling so editor writes landing mid-flight
// never show through.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{}
	if len(s.Nodes) > 0 {
		out.Nodes = make([]Node, len(s.Nodes))
		copy(out.Nodes, s.Nodes)
		for i := range out.Nodes {
			if len(s.Nodes[i].Tags) > 0 {
				out.Nodes[i].Tags = append([]string(nil), s.Nodes[i].Tags...)
			}
		}
	}
	if len(s.Edges) > 0 {
		out.Edges = make([]Edge, len(s.Edges))
		copy(out.Edges, s.Edges)
	}
	return out
}

// ImageRefs projects every image node with a persisted source URL, in
// snapshot order. Nodes still uploading or holding local handles are
// skipped because external providers cannot fetch them.
func (s Snapshot) ImageRefs() []ImageRef {
	refs := make([]ImageRef, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Kind != KindImage {
			continue
		}
		if IsTransientURL(n.SourceURL) {
			continue
		}
		refs = append(refs, ImageRef{
			URL:      n.SourceURL,
			AltLabel: n.AltLabel,
			Note:     n.Note,
			Role:     n.ResolveRole(),
		})
	}
	return refs
}

// TextDescriptors returns every non-empty text node value in snapshot order.
func (s Snapshot) TextDescriptors() []string {
	out := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Kind != KindText {
			continue
		}
		if t := n.Text; t != "" {
			out = append(out, t)
		}
	}
	return out
}

// RelationshipLabels returns every non-empty edge label in snapshot order.
// Endpoint validity is deliberately not checked: labels are flat facts for
// the reasoning step, not traversal constraints.
func (s Snapshot) RelationshipLabels() []string {
	out := make([]string, 0, len(s.Edges))
	for _, e := range s.Edges {
		if e.Label != "" {
			out = append(out, e.Label)
		}
	}
	return out
}
