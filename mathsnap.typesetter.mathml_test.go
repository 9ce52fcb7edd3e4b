package mathsnap

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typesetWithin fails the test when Typeset does not return before the
// deadline.
func typesetWithin(t *testing.T, source string, opts TypesetOptions) (string, error) {
	t.Helper()

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		html, err := NewMathMLTypesetter().Typeset(source, opts)
		done <- result{html, err}
	}()

	select {
	case r := <-done:
		return r.html, r.err
	case <-time.After(5 * time.Second):
		t.Fatalf("Typeset(%q) did not return", source)
		return "", nil
	}
}

func TestMathMLTypesetter_Inline(t *testing.T) {
	html, err := typesetWithin(t, "E = mc^2", TypesetOptions{ThrowOnError: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, mathElementOpen))
	assert.Contains(t, html, `display="inline"`)
	assert.NotContains(t, html, mathErrorElement)
}

func TestMathMLTypesetter_Display(t *testing.T) {
	html, err := typesetWithin(t, `\frac{a}{b}`, TypesetOptions{ThrowOnError: true, DisplayMode: true})
	require.NoError(t, err)
	assert.Contains(t, html, `display="block"`)
	assert.Contains(t, html, "<mfrac")
}

func TestMathMLTypesetter_DollarSources(t *testing.T) {
	tests := []string{`a $$ b`, `x $ y`, `$`, `$E$`, `\$5`}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			html, err := typesetWithin(t, source, TypesetOptions{})
			require.NoError(t, err)

			html = strings.TrimSpace(html)
			assert.True(t, strings.HasPrefix(html, mathElementOpen), html)
			assert.True(t, strings.HasSuffix(html, "</math>"), html)
			assert.Equal(t, 1, strings.Count(html, mathElementOpen), "source must stay inside one <math> element")
		})
	}
}

func TestMathMLTypesetter_EmptySource(t *testing.T) {
	html, err := typesetWithin(t, "  \n ", TypesetOptions{ThrowOnError: true})
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestMathMLTypesetter_StructureErrors(t *testing.T) {
	tests := []string{`\frac{`, `x^`, `a & b`, `\begin{matrix} a \end{pmatrix}`}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			_, err := typesetWithin(t, source, TypesetOptions{ThrowOnError: true})
			require.Error(t, err)
			assert.True(t, IsMathSyntaxError(err))
			assert.NotEmpty(t, MessageOf(err))
		})
	}
}

func TestMathMLTypesetter_MacroWithArgument(t *testing.T) {
	opts := TypesetOptions{
		ThrowOnError: true,
		Macros:       map[string]string{`\cube`: `\sqrt[3]{#1}`, `\RR`: `\mathbb{R}`},
	}

	html, err := typesetWithin(t, `\cube{x} \in \RR`, opts)
	require.NoError(t, err)
	assert.Contains(t, html, "<mroot")
	assert.NotContains(t, html, mathErrorElement)
}

func TestMathMLTypesetter_RecursiveMacro(t *testing.T) {
	opts := TypesetOptions{
		ThrowOnError: true,
		Macros:       map[string]string{`\loop`: `x\loop`},
	}

	_, err := typesetWithin(t, `\loop`, opts)
	require.Error(t, err)
	assert.True(t, IsMathSyntaxError(err))
}

func TestMathMLTypesetter_InvalidMacroName(t *testing.T) {
	_, err := typesetWithin(t, "x", TypesetOptions{Macros: map[string]string{"RR": "y"}})
	require.Error(t, err)
	assert.Contains(t, MessageOf(err), "invalid macro name")
}
