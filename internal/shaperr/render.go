package shaperr

import (
	"fmt"

	"github.com/fatih/color"
)

// Render formats a recovered *Fault the way cmd/shapetrace prints it to a
// terminal: a colorized "error[CODE]: message" line, in the same spirit
// as the teacher's ErrorReporter.FormatError (internal/errors/reporter.go)
// but without source-position context, since Fault carries no source
// text — ShapeTracker has no textual grammar of its own.
func Render(f *Fault) string {
	bold := color.New(color.Bold, color.FgRed).SprintFunc()
	if len(f.Args) == 0 {
		return fmt.Sprintf("%s %s", bold(fmt.Sprintf("error[%s]:", f.Code)), f.Message)
	}
	return fmt.Sprintf("%s %s: %v", bold(fmt.Sprintf("error[%s]:", f.Code)), f.Message, f.Args)
}
