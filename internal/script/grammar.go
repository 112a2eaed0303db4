package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
)

// Statement is one movement-op line: an operator name followed by its
// integer arguments, e.g. "shrink 0 3 0 2" or "flip 0 1".
type Statement struct {
	Pos  lexer.Position
	Op   string `@Ident`
	Args []int  `@Number*`
}

// Program is a sequence of Statements, one per non-blank line.
type Program struct {
	Pos        lexer.Position
	Statements []*Statement `(EOL* @@)* EOL*`
}

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse builds a Program from source text, following the teacher's
// grammar.ParseFile (grammar/parser.go) split into a parse step over
// source text already in memory, plus a file-reading convenience.
func Parse(name, source string) (*Program, error) {
	prog, err := parser.ParseString(name, source)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseFile reads path and parses it as a movement-op script.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(path, string(source))
}

// ReportParseError prints a caret-style parse error, grounded on the
// teacher's reportParseError (grammar/parser.go, cmd/kanso-cli/main.go).
func ReportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}

func (s *Statement) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = fmt.Sprintf("%d", a)
	}
	if len(parts) == 0 {
		return s.Op
	}
	return s.Op + " " + strings.Join(parts, " ")
}

func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}
