// Command shapetrace runs a movement-op script (internal/script) through
// shapetracker and prints the resulting stack, contiguity, and index
// expressions, grounded on the teacher's cmd/kanso-cli/main.go: read a
// file, parse it, report caret-style errors on failure, print the
// result on success.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"shapetracker/internal/script"
	"shapetracker/internal/shaperr"
	"shapetracker/internal/symexpr"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: shapetrace <script.st>")
		os.Exit(1)
	}
	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := script.Parse(path, string(source))
	if err != nil {
		script.ReportParseError(string(source), err)
		os.Exit(1)
	}

	os.Exit(trace(prog))
}

// trace runs prog's statements and prints the final tracker state. It
// recovers a *shaperr.Fault so a bad movement op (e.g. an out-of-range
// shrink) prints as a colorized error instead of a bare stack trace.
func trace(prog *script.Program) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*shaperr.Fault); ok {
				fmt.Fprintln(os.Stderr, shaperr.Render(f))
				exitCode = 1
				return
			}
			panic(r)
		}
	}()

	st, err := script.Run(prog)
	if err != nil {
		color.Red("%s", err)
		return 1
	}

	fmt.Println(st.String())
	color.Green("shape: %v  strides: %v  offset: %d  contiguous: %v  needs_valid: %v",
		st.Shape(), st.Strides(), st.Offset(), st.IsContiguous(), st.NeedsValid())

	idxNames := make([]symexpr.Expr, len(st.Shape()))
	for i := range idxNames {
		idxNames[i] = symexpr.Var(fmt.Sprintf("i%d", i), 0, st.Shape()[i]-1)
	}
	offset, valid := st.ExprIdxs(idxNames)
	fmt.Printf("offset(%s) = %s\n", axesLabel(len(idxNames)), offset)
	fmt.Printf("valid(%s)  = %s\n", axesLabel(len(idxNames)), valid)

	return 0
}

func axesLabel(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("i%d", i)
	}
	return s
}
