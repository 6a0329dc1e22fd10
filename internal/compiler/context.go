package compiler

import (
	"promptcanvas/internal/canvas"
	"promptcanvas/internal/globalctx"
)

// Context is the structured analysis input handed to the reasoning step:
// images partitioned by role, flat text descriptors and relationship
// labels, and the user's own prompt.
type Context struct {
	SubjectImages   []canvas.ImageRef `json:"subject_images"`
	SceneImages     []canvas.ImageRef `json:"scene_images"`
	StyleImages     []canvas.ImageRef `json:"style_images"`
	ReferenceImages []canvas.ImageRef `json:"reference_images"`
	TextDescriptors []string          `json:"text_descriptors"`
	Relationships   []string          `json:"relationships"`
	UserPrompt      string            `json:"user_prompt"`
}

// Images returns all bucketed images in role order (subject, scene, style,
// reference), each bucket keeping snapshot order.
func (c Context) Images() []canvas.ImageRef {
	out := make([]canvas.ImageRef, 0,
		len(c.SubjectImages)+len(c.SceneImages)+len(c.StyleImages)+len(c.ReferenceImages))
	out = append(out, c.SubjectImages...)
	out = append(out, c.SceneImages...)
	out = append(out, c.StyleImages...)
	out = append(out, c.ReferenceImages...)
	return out
}

// Empty reports whether there is nothing for a reasoning provider to work
// with: no images and no text descriptors.
func (c Context) Empty() bool {
	return len(c.SubjectImages) == 0 && len(c.SceneImages) == 0 &&
		len(c.StyleImages) == 0 && len(c.ReferenceImages) == 0 &&
		len(c.TextDescriptors) == 0
}

// AssembleContext partitions the snapshot's persisted images into role
// buckets, caps each bucket (earliest-added images win), and collects the
// flat descriptor and relationship lists. Deterministic, no I/O.
func AssembleContext(snap canvas.Snapshot, userPrompt string, opts globalctx.CompileOptions) Context {
	opts = opts.Normalized()
	ctx := Context{
		TextDescriptors: snap.TextDescriptors(),
		Relationships:   snap.RelationshipLabels(),
		UserPrompt:      userPrompt,
	}
	for _, ref := range snap.ImageRefs() {
		switch ref.Role {
		case canvas.RoleSubject:
			ctx.SubjectImages = appendCapped(ctx.SubjectImages, ref, opts.PerRoleCap)
		case canvas.RoleScene:
			ctx.SceneImages = appendCapped(ctx.SceneImages, ref, opts.PerRoleCap)
		case canvas.RoleStyle:
			ctx.StyleImages = appendCapped(ctx.StyleImages, ref, opts.PerRoleCap)
		default:
			ctx.ReferenceImages = appendCapped(ctx.ReferenceImages, ref, opts.PerRoleCap)
		}
	}
	if opts.TotalCap > 0 {
		ctx = capTotal(ctx, opts.TotalCap)
	}
	return ctx
}

func appendCapped(bucket []canvas.ImageRef, ref canvas.ImageRef, limit int) []canvas.ImageRef {
	if len(bucket) >= limit {
		return bucket
	}
	return append(bucket, ref)
}

// capTotal enforces the flat-cap variant on top of per-role capping,
// trimming buckets in reverse role priority (reference first, subject last).
func capTotal(ctx Context, total int) Context {
	buckets := []*[]canvas.ImageRef{
		&ctx.ReferenceImages, &ctx.StyleImages, &ctx.SceneImages, &ctx.SubjectImages,
	}
	count := len(ctx.SubjectImages) + len(ctx.SceneImages) +
		len(ctx.StyleImages) + len(ctx.ReferenceImages)
	for _, bucket := range buckets {
		for count > total && len(*bucket) > 0 {
			*bucket = (*bucket)[:len(*bucket)-1]
			count--
		}
	}
	return ctx
}
