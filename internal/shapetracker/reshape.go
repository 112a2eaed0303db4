package shapetracker

import (
	"shapetracker/internal/shaperr"
	"shapetracker/internal/view"
)

// Reshape rewrites the logical shape while preserving the element
// sequence a contiguous walk would visit. It tries, in order, the four
// policies spec.md §4.4 describes, stopping at the first that applies:
// identity, size-1-dim insertion/removal, merged-dims factorization, and
// finally a contiguous-shape fallback (replacing the top view if it is
// already contiguous, or pushing a fresh contiguous view otherwise).
func (st *ShapeTracker) Reshape(newShape []int) *ShapeTracker {
	for _, s := range newShape {
		if s < 1 {
			shaperr.Fail(shaperr.CodeReshapeDim, "reshape dimension must be >= 1", newShape)
		}
	}
	cur := st.top()
	if prod(newShape) != prod(cur.Shape) {
		shaperr.Fail(shaperr.CodeReshapeProduct, "reshape changes element count", cur.Shape, newShape)
	}

	if intsEqual(newShape, cur.Shape) {
		return &ShapeTracker{Views: st.Views}
	}

	if strides, ok := reshapeDropInsertOnes(cur, newShape); ok {
		return st.withTop(view.New(newShape, strides, cur.Offset))
	}

	if strides, ok := reshapeFactor(reversedDimStrides(cur.MergedDims()), newShape); ok {
		return st.withTop(view.New(newShape, strides, cur.Offset))
	}

	if cur.Contiguous {
		return st.withTop(view.New(newShape, stridesFor(newShape), 0))
	}
	return st.pushed(view.New(newShape, stridesFor(newShape), 0))
}

func stridesFor(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dropOnes(shape []int) (values []int, strides []int, indices []int) {
	for i, s := range shape {
		if s != 1 {
			values = append(values, s)
			indices = append(indices, i)
		}
	}
	return
}

// reshapeDropInsertOnes implements policy 2: if stripping every size-1
// dim from both shapes yields equal tuples, the non-1 strides carry over
// in order and new 1-dims get stride 0 (which view.New also normalizes).
func reshapeDropInsertOnes(cur *view.View, newShape []int) ([]int, bool) {
	curNonOne, _, curNonOneIdx := dropOnes(cur.Shape)
	newNonOne, _, _ := dropOnes(newShape)
	if !intsEqual(curNonOne, newNonOne) {
		return nil, false
	}

	strides := make([]int, len(newShape))
	k := 0
	for i, s := range newShape {
		if s == 1 {
			strides[i] = 0
			continue
		}
		strides[i] = cur.Strides[curNonOneIdx[k]]
		k++
	}
	return strides, true
}

// reversedDimStrides reverses a View.MergedDims() result (fastest-first,
// the order ExprNode walks) into slowest-first order — the order the
// original (_examples/original_source/tinygrad/shape/__init__.py,
// reshape's to_shape_strides) builds and consumes its merged-dims list
// front-to-back via pop(0). reshapeFactor walks newShape left-to-right
// (slowest dim first), so it must consume merged dims in that same
// orientation or it pairs the wrong source dim with each target dim.
func reversedDimStrides(merged []view.DimStride) []view.DimStride {
	out := make([]view.DimStride, len(merged))
	for i, d := range merged {
		out[len(merged)-1-i] = d
	}
	return out
}

// reshapeFactor implements policy 3: walk newShape left-to-right
// (slowest dim first) against merged, a slowest-first run of the
// current view's merged dims, consuming size factors from the current
// (size,stride) pair as long as it divides evenly; size-1 target dims
// are skipped without consuming (view.New zeroes their stride
// regardless of what we assign here).
func reshapeFactor(merged []view.DimStride, newShape []int) ([]int, bool) {
	strides := make([]int, len(newShape))
	mi := 0
	var curSize, curStride int
	if mi < len(merged) {
		curSize, curStride = merged[mi].Size, merged[mi].Stride
	}

	for j, s := range newShape {
		if s == 1 {
			strides[j] = 0
			continue
		}
		if mi >= len(merged) || curSize%s != 0 {
			return nil, false
		}
		strides[j] = curStride * (curSize / s)
		curSize /= s
		if curSize == 1 {
			mi++
			if mi < len(merged) {
				curSize, curStride = merged[mi].Size, merged[mi].Stride
			}
		}
	}

	if mi != len(merged) {
		return nil, false
	}
	return strides, true
}
