package mathsnap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"script and tags", `<script>alert("xss")</script>E = mc^2<b>bold</b>`, "E = mc^2bold"},
		{"plain math untouched", `\frac{a}{b}`, `\frac{a}{b}`},
		{"script with attributes", `<script type="text/javascript">x()</script>y`, "y"},
		{"uppercase script", `<SCRIPT>x()</SCRIPT>y`, "y"},
		{"multiline script", "<script>\nalert(1)\n</script>z", "z"},
		{"unterminated tag", `a<img src=x onerror=alert(1)`, "a"},
		{"self closing", `a<br/>b`, "ab"},
		{"relations look like tags", `a<b>c`, "ac"},
		{"lone less-than at end", `a <`, "a <"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		`<script>alert("xss")</script>E = mc^2<b>bold</b>`,
		`<<b>>x`,
		`a<img src=x`,
		`x^2 + y^2`,
	}
	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), input)
	}
}

func TestSanitize_NoTagsRemain(t *testing.T) {
	out := Sanitize(`<div><p onclick="x">hi</p></div><script src="evil.js"></script>`)
	assert.Equal(t, "hi", out)
	assert.NotContains(t, out, "<")
}
