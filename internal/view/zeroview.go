package view

import (
	"fmt"
	"strings"

	"shapetracker/internal/shaperr"
	"shapetracker/internal/symexpr"
)

// Bound is a half-open padding window [Lo,Hi) for one output dimension.
// Lo may be negative and Hi may exceed the corresponding OldShape entry
// — those excess indices are padding.
type Bound struct {
	Lo, Hi int
}

// ZeroView represents a shrink that extends beyond the original buffer:
// it contributes no offset, only a validity predicate guarding the
// padded region, per spec.md §4.3.
type ZeroView struct {
	OldShape []int
	Bounds   []Bound
}

// NewZeroView constructs a ZeroView from the pre-pad shape and the
// per-dim padding windows.
func NewZeroView(oldShape []int, bounds []Bound) *ZeroView {
	if len(oldShape) != len(bounds) {
		shaperr.Fail(shaperr.CodeRankMismatch, "zero view shape/bounds rank mismatch", oldShape, bounds)
	}
	return &ZeroView{
		OldShape: append([]int(nil), oldShape...),
		Bounds:   append([]Bound(nil), bounds...),
	}
}

// IsLayer marks ZeroView as a shapetracker.Layer (View|ZeroView).
func (z *ZeroView) IsLayer() {}

// PaddedShape is the logical output shape (hi-lo per dim).
func (z *ZeroView) PaddedShape() []int {
	shape := make([]int, len(z.Bounds))
	for i, b := range z.Bounds {
		shape[i] = b.Hi - b.Lo
	}
	return shape
}

func (z *ZeroView) String() string {
	parts := make([]string, len(z.Bounds))
	for i, b := range z.Bounds {
		parts[i] = fmt.Sprintf("[%d,%d)", b.Lo, b.Hi)
	}
	return fmt.Sprintf("ZeroView(old=%v,%s)", z.OldShape, strings.Join(parts, ","))
}

// ExprNode computes the validity predicate for a linear index idx over
// the padded output, conjoined with the incoming validity validIn, per
// spec.md §4.3: for each output dimension (fastest to slowest) compute
// base = (idx/acc) mod paddedSize + lo, then require base >= 0 (when
// lo < 0) and base < oldSize (when hi > oldSize). ZeroView never
// transforms idx — it only adds guards.
func (z *ZeroView) ExprNode(idx symexpr.Expr, validIn symexpr.Expr) symexpr.Expr {
	padded := z.PaddedShape()
	checks := []symexpr.Expr{validIn}

	acc := 1
	for i := len(padded) - 1; i >= 0; i-- {
		size := padded[i]
		b := z.Bounds[i]
		oldSize := z.OldShape[i]

		if size != 1 {
			var component symexpr.Expr = idx
			if acc != 1 {
				component = symexpr.Div(component, acc)
			}
			component = symexpr.Mod(component, size)
			base := symexpr.Sum(component, symexpr.Num(b.Lo))

			if b.Lo < 0 {
				checks = append(checks, symexpr.Ge(base, 0))
			}
			if b.Hi > oldSize {
				checks = append(checks, symexpr.Lt(base, oldSize))
			}
		}
		acc *= size
	}

	return symexpr.And(checks...)
}

// AlwaysValid reports whether this ZeroView's own guards (ignoring
// validIn) are provably always satisfied — i.e. the padding is
// unreachable and the ZeroView can be skipped entirely. Used by
// shapetracker.Pad per spec.md §4.4.
func (z *ZeroView) AlwaysValid() bool {
	e := z.ExprNode(symexpr.Var("i", 0, prod(z.PaddedShape())-1), symexpr.Num(1))
	b := e.Bounds()
	return b.Min == 1 && b.Max == 1
}

func prod(xs []int) int {
	p := 1
	for _, x := range xs {
		p *= x
	}
	return p
}
