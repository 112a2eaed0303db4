// Package shapetracker implements the ordered stack of Views (and
// ZeroViews) that is the subject of this module: it composes a sequence
// of movement operations (reshape, permute, expand, shrink, pad, flip,
// stride) applied to a logical tensor shape into, at most, a short chain
// of affine layers, and resolves a logical index through that chain into
// a symbolic (buffer offset, validity) expression pair.
//
// The functional API mirrors the teacher's IR builder
// (internal/ir/builder.go): a small amount of state (here, just the
// Views slice) is threaded through a sequence of operations, each of
// which returns a value derived from the last rather than mutating
// shared state in place — every movement op here returns a fresh
// *ShapeTracker, and the Views slice is copy-on-write so two trackers
// never alias a slice one of them is about to change.
package shapetracker

import (
	"fmt"
	"strings"

	"shapetracker/internal/shaperr"
	"shapetracker/internal/view"
)

// Layer is the sealed View|ZeroView variant a ShapeTracker's stack holds.
type Layer interface {
	IsLayer()
}

// ShapeTracker is an ordered, non-empty stack of Layers whose last entry
// is always a *view.View describing the currently exposed logical shape.
type ShapeTracker struct {
	Views []Layer
}

// New creates a ShapeTracker from an initial shape: a single identity
// View whose strides are the row-major strides for that shape (spec.md
// §3 invariant: views[0] is always the identity view of the original
// tensor shape).
func New(shape []int) *ShapeTracker {
	for _, s := range shape {
		if s < 1 {
			shaperr.Fail(shaperr.CodeBadShape, "shape dimension must be >= 1", shape)
		}
	}
	return &ShapeTracker{Views: []Layer{view.Identity(shape)}}
}

// NewFromStridesAndOffset is the "strided()" convenience constructor
// recovered from original_source (DESIGN.md, SPEC_FULL.md §3/§4.4a): it
// builds a ShapeTracker directly from a flat list of (size,stride) pairs
// and a scalar offset, as a single View, without composing reshape and
// stride.
func NewFromStridesAndOffset(dims []view.DimStride, offset int) *ShapeTracker {
	shape := make([]int, len(dims))
	strides := make([]int, len(dims))
	for i, d := range dims {
		shape[i] = d.Size
		strides[i] = d.Stride
	}
	return &ShapeTracker{Views: []Layer{view.New(shape, strides, offset)}}
}

// top returns the current exposed View — always the last stack entry.
func (st *ShapeTracker) top() *view.View {
	return st.Views[len(st.Views)-1].(*view.View)
}

// withTop returns a new ShapeTracker with the top View replaced by v; the
// rest of the stack is shared (views are immutable, so sharing is safe).
func (st *ShapeTracker) withTop(v *view.View) *ShapeTracker {
	views := append([]Layer(nil), st.Views[:len(st.Views)-1]...)
	views = append(views, v)
	return &ShapeTracker{Views: views}
}

// pushed returns a new ShapeTracker with layers appended on top.
func (st *ShapeTracker) pushed(layers ...Layer) *ShapeTracker {
	views := append([]Layer(nil), st.Views...)
	views = append(views, layers...)
	return &ShapeTracker{Views: views}
}

// Clone deep-copies the view list so a caller can fork history; the
// Views themselves are immutable and safely shared (spec.md §5).
func (st *ShapeTracker) Clone() *ShapeTracker {
	return &ShapeTracker{Views: append([]Layer(nil), st.Views...)}
}

// Shape is the current logical shape.
func (st *ShapeTracker) Shape() []int { return append([]int(nil), st.top().Shape...) }

// Strides is the current top View's strides.
func (st *ShapeTracker) Strides() []int { return append([]int(nil), st.top().Strides...) }

// Offset is the current top View's scalar offset.
func (st *ShapeTracker) Offset() int { return st.top().Offset }

// IsContiguous reports whether the tracker is a single View with offset
// zero and canonical row-major strides — spec.md §8 invariant 2.
func (st *ShapeTracker) IsContiguous() bool {
	return len(st.Views) == 1 && st.top().Contiguous
}

// NeedsValid reports whether any ZeroView appears in the stack.
func (st *ShapeTracker) NeedsValid() bool {
	for _, l := range st.Views {
		if _, ok := l.(*view.ZeroView); ok {
			return true
		}
	}
	return false
}

// RealStrides reports the strides of the single backing view once the
// tracker collapses to exactly one View after Simplify, or ok=false if it
// cannot be expressed as one view (SPEC_FULL.md §3/§4.4a supplement).
func (st *ShapeTracker) RealStrides() ([]int, bool) {
	simplified := st.Simplify()
	if len(simplified.Views) != 1 {
		return nil, false
	}
	v, ok := simplified.Views[0].(*view.View)
	if !ok {
		return nil, false
	}
	return append([]int(nil), v.Strides...), true
}

func (st *ShapeTracker) String() string {
	parts := make([]string, len(st.Views))
	for i, l := range st.Views {
		switch x := l.(type) {
		case *view.View:
			parts[i] = x.String()
		case *view.ZeroView:
			parts[i] = x.String()
		default:
			parts[i] = fmt.Sprintf("%v", l)
		}
	}
	return "ShapeTracker[" + strings.Join(parts, " -> ") + "]"
}

func prod(xs []int) int {
	p := 1
	for _, x := range xs {
		p *= x
	}
	return p
}
