package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapetracker/internal/symexpr"
	"shapetracker/internal/view"
)

func TestNewNormalizesSizeOneStrides(t *testing.T) {
	v := view.New([]int{1, 3}, []int{99, 1}, 0)
	assert.Equal(t, []int{0, 1}, v.Strides)
}

func TestNewRejectsRankMismatch(t *testing.T) {
	assert.Panics(t, func() { view.New([]int{2, 3}, []int{1}, 0) })
}

func TestNewRejectsZeroDim(t *testing.T) {
	assert.Panics(t, func() { view.New([]int{2, 0}, []int{1, 1}, 0) })
}

func TestIdentityIsContiguous(t *testing.T) {
	v := view.Identity([]int{2, 3, 4})
	assert.True(t, v.Contiguous)
	assert.Equal(t, []int{12, 4, 1}, v.Strides)
}

func TestIdentityIsMemoizedByShape(t *testing.T) {
	a := view.Identity([]int{2, 3})
	b := view.Identity([]int{2, 3})
	assert.Same(t, a, b)
}

func TestNonZeroOffsetIsNeverContiguous(t *testing.T) {
	v := view.New([]int{2, 3}, []int{3, 1}, 1)
	assert.False(t, v.Contiguous)
}

func TestMergedDimsCoalescesRowMajor(t *testing.T) {
	v := view.New([]int{2, 3}, []int{3, 1}, 0)
	assert.Equal(t, []view.DimStride{{Size: 6, Stride: 1}}, v.MergedDims())
}

func TestMergedDimsDoesNotCoalesceAcrossPermute(t *testing.T) {
	v := view.New([]int{3, 2}, []int{1, 3}, 0)
	assert.Equal(t, []view.DimStride{{Size: 2, Stride: 3}, {Size: 3, Stride: 1}}, v.MergedDims())
}

func TestExprNodeScalarBroadcastIsZero(t *testing.T) {
	v := view.New([]int{4}, []int{0}, 0)
	idx := symexpr.Var("i", 0, 3)
	e := v.ExprNode(idx)
	assert.Equal(t, "0", e.String())
}

func TestExprNodeContiguousRecoversLinearIndex(t *testing.T) {
	v := view.Identity([]int{2, 3})
	idx := symexpr.Var("i", 0, 5)
	e := v.ExprNode(idx)
	for lin := 0; lin < 6; lin++ {
		assert.Equal(t, lin, symexpr.Eval(e, map[string]int{"i": lin}))
	}
}

func TestExprIdxsTranspose(t *testing.T) {
	v := view.New([]int{3, 2}, []int{1, 3}, 0)
	a := symexpr.Var("a", 0, 2)
	bIdx := symexpr.Var("b", 0, 1)
	e := v.ExprIdxs([]symexpr.Expr{a, bIdx}, 0)
	assert.Equal(t, "(a+(b*3))", e.String())
}

func TestExprIdxsArityMismatchPanics(t *testing.T) {
	v := view.Identity([]int{2, 3})
	assert.Panics(t, func() { v.ExprIdxs([]symexpr.Expr{symexpr.Num(0)}, 0) })
}

func TestZeroViewGuardsPaddedRegion(t *testing.T) {
	zv := view.NewZeroView([]int{3}, []view.Bound{{Lo: -1, Hi: 4}})
	require.False(t, zv.AlwaysValid())

	idx := symexpr.Var("idx", 0, 4)
	valid := zv.ExprNode(idx, symexpr.Num(1))

	assert.Equal(t, 0, symexpr.Eval(valid, map[string]int{"idx": 0}))
	assert.Equal(t, 1, symexpr.Eval(valid, map[string]int{"idx": 2}))
	assert.Equal(t, 0, symexpr.Eval(valid, map[string]int{"idx": 4}))
}

func TestZeroViewAlwaysValidWhenBoundsDoNotExceedOld(t *testing.T) {
	zv := view.NewZeroView([]int{4}, []view.Bound{{Lo: 0, Hi: 4}})
	assert.True(t, zv.AlwaysValid())
}
