package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStructure_Valid(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
		{"plain text", "E = mc^2"},
		{"group", `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`},
		{"nested groups", `e^{i\pi^{2}} + 1 = 0`},
		{"escaped braces", `\{ x \mid x > 0 \}`},
		{"escaped backslash", `a \\ b \\`},
		{"fence", `\left( \frac{x}{y} \right)`},
		{"fence with escaped delimiter", `\left\{ x \right\}`},
		{"fence with dot", `\left. \frac{df}{dx} \right|_{x=0}`},
		{"fence with named delimiter", `\left\langle v \right\rangle`},
		{"leftarrow is a command", `a \leftarrow b \rightarrow c`},
		{"environment", `\begin{matrix} a & b \\ c & d \end{matrix}`},
		{"starred environment", `\begin{align*} x &= 1 \end{align*}`},
		{"environment with spaces", `\begin {pmatrix} 1 \end{ pmatrix }`},
		{"multiline", "a +\nb"},
		{"script with text", `x^2 + y_1`},
		{"script with group", `x_{i}`},
		{"script with command", `a^\alpha`},
		{"script with empty group", `x^{}`},
		{"script after space", `x^ 2`},
		{"align inside nested group", `\begin{cases} {x} & x > 0 \end{cases}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, CheckStructure(tc.source))
		})
	}
}

func TestCheckStructure_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unclosed group", `\frac{`},
		{"stray close", `x }`},
		{"unclosed nested", `\sqrt{\frac{a}{b}`},
		{"unclosed fence", `\left( x`},
		{"stray right", `x \right)`},
		{"unclosed environment", `\begin{matrix} a`},
		{"stray end", `a \end{matrix}`},
		{"dangling backslash", `a + \`},
		{"superscript without argument", `x^`},
		{"subscript without argument", `x_`},
		{"superscript before trailing space", `x^ `},
		{"subscript before close brace", `{x_}`},
		{"double superscript operator", `x^^2`},
		{"align outside environment", `a & b`},
		{"align in group outside environment", `{a & b}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckStructure(tc.source)
			require.Error(t, err)

			var serr *StructureError
			require.True(t, errors.As(err, &serr))
			assert.NotEmpty(t, serr.Message)
		})
	}
}

func TestCheckStructure_AlignPosition(t *testing.T) {
	err := CheckStructure(`a & b`)

	var serr *StructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrMsgAlignOutsideEnvironment, serr.Message)
	assert.Equal(t, 1, serr.Position.Line)
	assert.Equal(t, 3, serr.Position.Column)
}

func TestCheckStructure_MissingScriptArgumentPosition(t *testing.T) {
	err := CheckStructure("a +\nx_ }")

	var serr *StructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Position.Line)
}

func TestCheckStructure_MismatchedEnvironment(t *testing.T) {
	err := CheckStructure(`\begin{matrix} a \end{pmatrix}`)
	require.Error(t, err)

	var serr *StructureError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Message, ErrMsgMismatchedEnvironment)
	assert.Contains(t, serr.Message, "matrix")
	assert.Contains(t, serr.Message, "pmatrix")
	assert.Equal(t, 1, serr.Position.Line)
	assert.Equal(t, 1, serr.Position.Column)
}

func TestCheckStructure_DanglingBackslashPosition(t *testing.T) {
	err := CheckStructure("a\nb\\")

	var serr *StructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrMsgDanglingBackslash, serr.Message)
	assert.Equal(t, 2, serr.Position.Line)
	assert.Equal(t, 2, serr.Position.Column)
	assert.Equal(t, 3, serr.Position.Offset)
}

func TestCheckStructure_ErrorHasPosition(t *testing.T) {
	err := CheckStructure("a\n}")

	var serr *StructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Position.Line)
	assert.Contains(t, serr.Error(), "line 2")
}

func TestStructureError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewStructureError("outer", Position{}, cause)

	assert.Equal(t, "outer", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestCalculatePosition(t *testing.T) {
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, calculatePosition(""))
	assert.Equal(t, Position{Offset: 3, Line: 1, Column: 4}, calculatePosition("abc"))
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 2}, calculatePosition("ab\nc"))
}

func TestEnvironmentName(t *testing.T) {
	assert.Equal(t, "matrix", environmentName(`\begin{matrix}`))
	assert.Equal(t, "align*", environmentName(`\end {align*}`))
	assert.Equal(t, "", environmentName(`\begin`))
}
