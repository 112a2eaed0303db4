package shapetracker

import (
	"fmt"

	"shapetracker/internal/symexpr"
	"shapetracker/internal/view"
)

// Simplify performs a best-effort stack collapse (spec.md §4.6): while
// the stack has at least two layers and the top is a View with offset
// zero, probe each of its dimensions by substituting
// Var(idx,0,size-1)*stride into the second-to-top View's ExprNode. If
// every dimension's probe classifies as a constant zero, the bare probe
// variable, or the probe variable scaled by a constant, the top two
// Views collapse into one with the recovered strides; otherwise
// simplification stops. The stack is always left semantically
// equivalent, and never grows.
func (st *ShapeTracker) Simplify() *ShapeTracker {
	cur := st
	for len(cur.Views) >= 2 {
		top, ok := cur.Views[len(cur.Views)-1].(*view.View)
		if !ok || top.Offset != 0 {
			break
		}
		second, ok := cur.Views[len(cur.Views)-2].(*view.View)
		if !ok {
			break
		}

		strides := make([]int, len(top.Shape))
		collapsed := true
		for i, size := range top.Shape {
			probeVar := symexpr.Var(fmt.Sprintf("_simplify%d", i), 0, size-1)
			probe := second.ExprNode(symexpr.Mul(probeVar, top.Strides[i]))
			k, ok := classifyProbe(probe)
			if !ok {
				collapsed = false
				break
			}
			strides[i] = k
		}
		if !collapsed {
			break
		}

		merged := view.New(top.Shape, strides, 0)
		views := append([]Layer(nil), cur.Views[:len(cur.Views)-2]...)
		views = append(views, merged)
		cur = &ShapeTracker{Views: views}
	}
	return cur
}

// classifyProbe recognizes the three shapes spec.md §4.6 allows a
// collapsed dimension's probe to take.
func classifyProbe(e symexpr.Expr) (stride int, ok bool) {
	switch x := e.(type) {
	case *symexpr.NumExpr:
		if x.Value == 0 {
			return 0, true
		}
		return 0, false
	case *symexpr.VarExpr:
		return 1, true
	case *symexpr.MulExpr:
		if _, isVar := x.X.(*symexpr.VarExpr); isVar {
			return x.K, true
		}
		return 0, false
	default:
		return 0, false
	}
}
