package mathsnap

import (
	"strings"

	"github.com/itsatony/go-mathsnap/internal"
	"github.com/wyatt915/treeblood"
)

// MathMLTypesetter typesets LaTeX to MathML in pure Go using treeblood.
//
// treeblood degrades gracefully on malformed input, so when ThrowOnError is
// set the source first passes a structural check (balanced groups, fences
// and environments, script arguments, alignment tabs) and any <merror> in
// the output is reported as a syntax error.
type MathMLTypesetter struct{}

// NewMathMLTypesetter creates a MathML typesetter.
func NewMathMLTypesetter() *MathMLTypesetter {
	return &MathMLTypesetter{}
}

// Name returns TypesetterNameMathML.
func (t *MathMLTypesetter) Name() string {
	return TypesetterNameMathML
}

// Typeset converts source to a MathML fragment. Macros are expanded by
// treeblood, including #1..#9 arguments.
func (t *MathMLTypesetter) Typeset(source string, opts TypesetOptions) (string, error) {
	if err := internal.ValidateMacroNames(opts.Macros); err != nil {
		return "", syntaxErrorFromStructure(err, t.Name())
	}

	if opts.ThrowOnError {
		if err := internal.CheckStructure(source); err != nil {
			return "", syntaxErrorFromStructure(err, t.Name())
		}
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}

	out, err := typesetMathML(source, internal.MacroTable(opts.Macros), opts.DisplayMode)
	out = strings.TrimSpace(out)
	if err != nil {
		if opts.ThrowOnError {
			return "", NewMathSyntaxError(strings.TrimSpace(err.Error()), Position{}, t.Name(), err)
		}
		if out == "" {
			return "", NewEngineError(ErrMsgEngineFailed, t.Name(), err)
		}
	}

	if opts.ThrowOnError {
		if strings.Contains(out, mathErrorElement) {
			return "", NewMathSyntaxError(ErrMsgEngineMarkedError, Position{}, t.Name(), nil)
		}
		if !strings.Contains(out, mathElementOpen) {
			return "", NewMathSyntaxError(ErrMsgEngineNoMath, Position{}, t.Name(), nil)
		}
	}
	return out, nil
}

// typesetMathML renders one math span. macros are keyed without the
// leading backslash. On a treeblood failure out may still hold a partial
// <math> element with an <merror> in it.
func typesetMathML(tex string, macros map[string]string, display bool) (string, error) {
	if display {
		return treeblood.DisplayStyle(tex, macros)
	}
	return treeblood.InlineStyle(tex, macros)
}
