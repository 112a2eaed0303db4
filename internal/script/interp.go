package script

import (
	"fmt"

	"shapetracker/internal/shapetracker"
	"shapetracker/internal/view"
)

// RunError reports a script-level mistake (wrong arity, unknown op, or a
// "new"/"strided" missing as the first statement) — distinct from the
// shaperr.Fault contract-violation panics the library raises for
// programming errors, since a malformed script is ordinary user input.
type RunError struct {
	Line int
	Op   string
	Msg  string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Op, e.Msg)
}

// Run executes a Program's statements against a fresh ShapeTracker built
// by its first "new" or "strided" statement, applying each subsequent
// movement op in order. It returns the tracker after the last statement;
// "simplify" calls ShapeTracker.Simplify and replaces the running value.
func Run(prog *Program) (*shapetracker.ShapeTracker, error) {
	if len(prog.Statements) == 0 {
		return nil, &RunError{Msg: "empty script"}
	}

	first := prog.Statements[0]
	var st *shapetracker.ShapeTracker
	switch first.Op {
	case "new":
		st = shapetracker.New(first.Args)
	case "strided":
		if len(first.Args) < 1 || len(first.Args)%2 != 1 {
			return nil, lineErr(first, "strided needs an offset followed by size,stride pairs")
		}
		offset := first.Args[0]
		pairs := first.Args[1:]
		dims := make([]view.DimStride, len(pairs)/2)
		for i := range dims {
			dims[i] = view.DimStride{Size: pairs[2*i], Stride: pairs[2*i+1]}
		}
		st = shapetracker.NewFromStridesAndOffset(dims, offset)
	default:
		return nil, lineErr(first, "script must begin with \"new\" or \"strided\"")
	}

	for _, s := range prog.Statements[1:] {
		next, err := apply(st, s)
		if err != nil {
			return nil, err
		}
		st = next
	}
	return st, nil
}

func apply(st *shapetracker.ShapeTracker, s *Statement) (*shapetracker.ShapeTracker, error) {
	switch s.Op {
	case "reshape":
		return st.Reshape(s.Args), nil
	case "permute":
		return st.Permute(s.Args), nil
	case "expand":
		return st.Expand(s.Args), nil
	case "flip":
		return st.Flip(s.Args), nil
	case "stride":
		return st.Stride(s.Args), nil
	case "shrink":
		bounds, err := pairsToBounds(s)
		if err != nil {
			return nil, err
		}
		return st.Shrink(bounds), nil
	case "pad":
		bounds, err := pairsToBounds(s)
		if err != nil {
			return nil, err
		}
		return st.Pad(bounds), nil
	case "simplify":
		if len(s.Args) != 0 {
			return nil, lineErr(s, "simplify takes no arguments")
		}
		return st.Simplify(), nil
	default:
		return nil, lineErr(s, "unknown movement op")
	}
}

func pairsToBounds(s *Statement) ([]shapetracker.Bound, error) {
	if len(s.Args)%2 != 0 {
		return nil, lineErr(s, "expected pairs of integers")
	}
	bounds := make([]shapetracker.Bound, len(s.Args)/2)
	for i := range bounds {
		bounds[i] = shapetracker.Bound{Lo: s.Args[2*i], Hi: s.Args[2*i+1]}
	}
	return bounds, nil
}

func lineErr(s *Statement, msg string) *RunError {
	return &RunError{Line: s.Pos.Line, Op: s.Op, Msg: msg}
}
