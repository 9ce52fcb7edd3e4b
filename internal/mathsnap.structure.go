package internal

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	structureLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: TokenNameBegin, Pattern: `\\begin\s*\{[^{}]*\}`},
		{Name: TokenNameEnd, Pattern: `\\end\s*\{[^{}]*\}`},
		{Name: TokenNameLeft, Pattern: `\\left\s*(?:\\[A-Za-z]+|\\[^A-Za-z]|[^\sA-Za-z\\{}])`},
		{Name: TokenNameRight, Pattern: `\\right\s*(?:\\[A-Za-z]+|\\[^A-Za-z]|[^\sA-Za-z\\{}])`},
		{Name: TokenNameCommand, Pattern: `\\[A-Za-z]+\*?`},
		{Name: TokenNameEscaped, Pattern: `\\[^A-Za-z]`},
		{Name: TokenNameLBrace, Pattern: `\{`},
		{Name: TokenNameRBrace, Pattern: `\}`},
		{Name: TokenNameScript, Pattern: `[\^_]`},
		{Name: TokenNameAlign, Pattern: `&`},
		{Name: TokenNameWhitespace, Pattern: `\s+`},
		{Name: TokenNameText, Pattern: `[^\\{}^_&\s]+`},
	})

	structureParser = participle.MustBuild[mathDocument](
		participle.Lexer(structureLexer),
		participle.Elide(TokenNameWhitespace),
	)
)

// mathDocument is the root of the structural parse.
type mathDocument struct {
	Atoms []*mathAtom `parser:"@@*"`
}

// mathAtom is a single structural element.
type mathAtom struct {
	Group       *mathGroup       `parser:"  @@"`
	Environment *mathEnvironment `parser:"| @@"`
	Fence       *mathFence       `parser:"| @@"`
	Script      *mathScript      `parser:"| @@"`
	Align       *mathAlign       `parser:"| @@"`
	Token       string           `parser:"| @(Command | Escaped | Text)"`
}

// mathScript is a ^ or _ with its required argument.
type mathScript struct {
	Pos lexer.Position `parser:""`
	Op  string         `parser:"@Script"`
	Arg *scriptArg     `parser:"@@"`
}

// scriptArg is the single atom a script applies to.
type scriptArg struct {
	Group *mathGroup `parser:"  @@"`
	Token string     `parser:"| @(Command | Escaped | Text)"`
}

// mathAlign is an & column separator.
type mathAlign struct {
	Pos lexer.Position `parser:""`
	Tab string         `parser:"@Align"`
}

// mathGroup is a brace-delimited group.
type mathGroup struct {
	Pos   lexer.Position `parser:""`
	Atoms []*mathAtom    `parser:"'{' @@* '}'"`
}

// mathEnvironment is a \begin{name} ... \end{name} pair.
type mathEnvironment struct {
	Pos   lexer.Position `parser:""`
	Begin string         `parser:"@Begin"`
	Atoms []*mathAtom    `parser:"@@*"`
	End   string         `parser:"@End"`
}

// mathFence is a \left ... \right pair.
type mathFence struct {
	Pos   lexer.Position `parser:""`
	Left  string         `parser:"@Left"`
	Atoms []*mathAtom    `parser:"@@*"`
	Right string         `parser:"@Right"`
}

// CheckStructure verifies that groups, environments and fences in source
// are balanced, that every ^ and _ has an argument and that & only appears
// inside an environment. It does not typeset anything; an empty source is
// valid.
func CheckStructure(source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}

	if hasDanglingBackslash(source) {
		return NewStructureError(ErrMsgDanglingBackslash, calculatePosition(source[:len(source)-1]), nil)
	}

	doc, err := structureParser.ParseString("", source)
	if err != nil {
		return structureErrorFrom(err)
	}

	return checkAtoms(doc.Atoms, false)
}

// hasDanglingBackslash reports whether source ends in an odd run of backslashes.
func hasDanglingBackslash(source string) bool {
	run := 0
	for i := len(source) - 1; i >= 0 && source[i] == charBackslash; i-- {
		run++
	}
	return run%2 == 1
}

func structureErrorFrom(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return NewStructureError(perr.Message(), toPosition(perr.Position()), err)
	}
	return NewStructureError(ErrMsgStructureInvalid, Position{}, err)
}

func checkAtoms(atoms []*mathAtom, inEnv bool) error {
	for _, atom := range atoms {
		switch {
		case atom.Group != nil:
			if err := checkAtoms(atom.Group.Atoms, inEnv); err != nil {
				return err
			}
		case atom.Fence != nil:
			if err := checkAtoms(atom.Fence.Atoms, inEnv); err != nil {
				return err
			}
		case atom.Script != nil:
			if group := atom.Script.Arg.Group; group != nil {
				if err := checkAtoms(group.Atoms, inEnv); err != nil {
					return err
				}
			}
		case atom.Align != nil:
			if !inEnv {
				return NewStructureError(ErrMsgAlignOutsideEnvironment, toPosition(atom.Align.Pos), nil)
			}
		case atom.Environment != nil:
			env := atom.Environment
			if environmentName(env.Begin) != environmentName(env.End) {
				return NewStructureError(ErrMsgMismatchedEnvironment+": "+
					environmentName(env.Begin)+" closed by "+environmentName(env.End), toPosition(env.Pos), nil)
			}
			if err := checkAtoms(env.Atoms, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func toPosition(lpos lexer.Position) Position {
	return Position{Offset: lpos.Offset, Line: lpos.Line, Column: lpos.Column}
}

// environmentName extracts "matrix" from `\begin{matrix}` or `\end {matrix}`.
func environmentName(token string) string {
	open := strings.IndexByte(token, '{')
	end := strings.LastIndexByte(token, '}')
	if open < 0 || end <= open {
		return ""
	}
	return strings.TrimSpace(token[open+1 : end])
}
