package shapetracker

import (
	"shapetracker/internal/shaperr"
	"shapetracker/internal/view"
)

// Permute reorders dims by axis, a permutation of [0,rank). The top view
// is replaced with shape and strides gathered by axis; offset unchanged.
func (st *ShapeTracker) Permute(axis []int) *ShapeTracker {
	cur := st.top()
	n := len(cur.Shape)
	if len(axis) != n {
		shaperr.Fail(shaperr.CodePermuteAxes, "permute axis count mismatch", axis, n)
	}
	seen := make([]bool, n)
	for _, a := range axis {
		if a < 0 || a >= n || seen[a] {
			shaperr.Fail(shaperr.CodePermuteAxes, "permute axes is not a permutation", axis)
		}
		seen[a] = true
	}

	shape := make([]int, n)
	strides := make([]int, n)
	for i, a := range axis {
		shape[i] = cur.Shape[a]
		strides[i] = cur.Strides[a]
	}
	return st.withTop(view.New(shape, strides, cur.Offset))
}

// Expand broadcasts size-1 dims of the current shape out to newShape:
// every dim either matches exactly (stride unchanged) or was 1 (stride
// forced to 0).
func (st *ShapeTracker) Expand(newShape []int) *ShapeTracker {
	cur := st.top()
	if len(newShape) != len(cur.Shape) {
		shaperr.Fail(shaperr.CodeRankMismatch, "expand rank mismatch", cur.Shape, newShape)
	}

	strides := make([]int, len(newShape))
	for i, s := range newShape {
		switch {
		case cur.Shape[i] == s:
			strides[i] = cur.Strides[i]
		case cur.Shape[i] == 1:
			strides[i] = 0
		default:
			shaperr.Fail(shaperr.CodeExpandDim, "expand target disagrees with source dim", i, cur.Shape[i], s)
		}
	}
	return st.withTop(view.New(newShape, strides, cur.Offset))
}

// Bound is a per-dim half-open shrink/pad window, re-exported from view
// for callers of this package.
type Bound = view.Bound

// Shrink windows the current shape to bounds: every 0 <= lo <= hi <=
// shape[i] (spec.md §4.4 — no padding case; bounds outside that range
// are a contract violation here, per spec.md §7, and must go through
// Pad instead). New shape is (hi-lo), strides unchanged, offset +=
// sum(strides[i]*lo_i).
func (st *ShapeTracker) Shrink(bounds []Bound) *ShapeTracker {
	cur := st.top()
	if len(bounds) != len(cur.Shape) {
		shaperr.Fail(shaperr.CodeRankMismatch, "shrink rank mismatch", cur.Shape, bounds)
	}
	for i, b := range bounds {
		if b.Lo < 0 || b.Lo > b.Hi || b.Hi > cur.Shape[i] {
			shaperr.Fail(shaperr.CodeShrinkBounds, "shrink bounds out of range", i, b, cur.Shape[i])
		}
	}
	return st.shrinkUnchecked(bounds)
}

func (st *ShapeTracker) shrinkUnchecked(bounds []Bound) *ShapeTracker {
	cur := st.top()
	newShape := make([]int, len(bounds))
	offset := cur.Offset
	for i, b := range bounds {
		newShape[i] = b.Hi - b.Lo
		offset += cur.Strides[i] * b.Lo
	}
	return st.withTop(view.New(newShape, append([]int(nil), cur.Strides...), offset))
}

// Pad extends the current shape by bounds = ((before,after), …), all
// non-negative, via the generalized shrink spec.md §4.4 describes:
// pad(bounds) == shrink(((-before_i, shape[i]+after_i), …)), except the
// generalized bounds may fall outside [0,shape[i]] (that is the whole
// point of padding), so this bypasses Shrink's range check. The top view
// still gets the new shape/offset, and a ZeroView plus a fresh identity
// view of the new shape are appended to carry the validity predicate —
// unless the padding is proven unreachable, in which case the ZeroView
// is skipped and NeedsValid stays false.
func (st *ShapeTracker) Pad(bounds []Bound) *ShapeTracker {
	cur := st.top()
	if len(bounds) != len(cur.Shape) {
		shaperr.Fail(shaperr.CodeRankMismatch, "pad rank mismatch", cur.Shape, bounds)
	}
	shrinkBounds := make([]Bound, len(bounds))
	for i, b := range bounds {
		if b.Lo < 0 || b.Hi < 0 {
			shaperr.Fail(shaperr.CodePadBounds, "pad before/after must be non-negative", i, b)
		}
		shrinkBounds[i] = Bound{Lo: -b.Lo, Hi: cur.Shape[i] + b.Hi}
	}

	newShape := make([]int, len(shrinkBounds))
	for i, b := range shrinkBounds {
		newShape[i] = b.Hi - b.Lo
	}

	shrunk := st.shrinkUnchecked(shrinkBounds)

	zv := view.NewZeroView(cur.Shape, shrinkBounds)
	if zv.AlwaysValid() {
		return shrunk
	}
	return shrunk.pushed(zv, view.Identity(newShape))
}

// Flip reverses the dims in axes: equivalent to Stride(m) with m[i]=-1
// for i in axes, else 1.
func (st *ShapeTracker) Flip(axes []int) *ShapeTracker {
	cur := st.top()
	mul := make([]int, len(cur.Shape))
	for i := range mul {
		mul[i] = 1
	}
	for _, a := range axes {
		if a < 0 || a >= len(cur.Shape) {
			shaperr.Fail(shaperr.CodeFlipAxis, "flip axis out of range", a, len(cur.Shape))
		}
		mul[a] = -1
	}
	return st.Stride(mul)
}

// Stride subsamples (or reverses) each dim by mul[i] != 0: new shape
// ceil(shape[i]/|mul[i]|), new strides strides[i]*mul[i]; for mul[i]<0,
// the offset is shifted to the high end of that dim.
func (st *ShapeTracker) Stride(mul []int) *ShapeTracker {
	cur := st.top()
	if len(mul) != len(cur.Shape) {
		shaperr.Fail(shaperr.CodeRankMismatch, "stride rank mismatch", cur.Shape, mul)
	}

	newShape := make([]int, len(cur.Shape))
	newStrides := make([]int, len(cur.Shape))
	offset := cur.Offset
	for i, m := range mul {
		if m == 0 {
			shaperr.Fail(shaperr.CodeStrideZero, "stride multiplier must be nonzero", i)
		}
		abs := m
		if abs < 0 {
			abs = -abs
		}
		newShape[i] = (cur.Shape[i] + abs - 1) / abs
		newStrides[i] = cur.Strides[i] * m
		if m < 0 {
			offset += (cur.Shape[i] - 1) * cur.Strides[i]
		}
	}
	return st.withTop(view.New(newShape, newStrides, offset))
}
