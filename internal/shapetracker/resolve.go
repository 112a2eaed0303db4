package shapetracker

import (
	"shapetracker/internal/symexpr"
	"shapetracker/internal/view"
)

// ExprIdxs resolves per-dimension symbolic indices (one Expr per current
// shape dimension) into the (buffer offset, validity) expression pair,
// per spec.md §4.5: ask the top View for its index expression, then walk
// the remaining layers from second-to-top down to the first, feeding the
// running expression as the linear index into each View and threading
// validity through each ZeroView's guards.
func (st *ShapeTracker) ExprIdxs(idxs []symexpr.Expr) (offset symexpr.Expr, valid symexpr.Expr) {
	e := st.top().ExprIdxs(idxs, 0)
	return st.resolveRest(e)
}

// ExprNode resolves a single linear index (a fresh Var named idxName,
// bounded [0,prod(shape)-1]) into the (buffer offset, validity)
// expression pair, per spec.md §4.5.
func (st *ShapeTracker) ExprNode(idxName string) (offset symexpr.Expr, valid symexpr.Expr) {
	idx := symexpr.Var(idxName, 0, prod(st.top().Shape)-1)
	e := st.top().ExprNode(idx)
	return st.resolveRest(e)
}

func (st *ShapeTracker) resolveRest(e symexpr.Expr) (symexpr.Expr, symexpr.Expr) {
	valid := symexpr.Expr(symexpr.Num(1))
	for i := len(st.Views) - 2; i >= 0; i-- {
		switch v := st.Views[i].(type) {
		case *view.View:
			e = v.ExprNode(e)
		case *view.ZeroView:
			valid = v.ExprNode(e, valid)
		}
	}
	return e, valid
}
