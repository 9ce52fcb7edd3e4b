package mathsnap

import (
	"bytes"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownConverter = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
)

// mathSpan is one $...$ or $$...$$ region lifted out of a markdown document.
type mathSpan struct {
	tex     string
	display bool
}

// RenderMarkdown converts a markdown document with $inline$ and $$display$$
// math to HTML. Math is typeset to MathML; malformed math degrades in place
// instead of failing the document.
//
// An inline span must not start or end with a space and must close on the
// same line. \$ is a literal dollar, and dollars inside code spans are left
// alone.
func RenderMarkdown(source string) (string, error) {
	text, spans, prefix := extractMath(source)

	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(text), &buf); err != nil {
		return "", NewEngineError(ErrMsgMarkdownFailed, TypesetterNameMathML, err)
	}
	if len(spans) == 0 {
		return buf.String(), nil
	}

	pairs := make([]string, 0, 2*len(spans))
	for i, span := range spans {
		pairs = append(pairs, placeholder(prefix, i), typesetSpan(span))
	}
	return strings.NewReplacer(pairs...).Replace(buf.String()), nil
}

func typesetSpan(span mathSpan) string {
	out, err := typesetMathML(span.tex, nil, span.display)
	out = strings.TrimSpace(out)
	if err != nil && out == "" {
		delim := markdownInlineDelim
		if span.display {
			delim = markdownDisplayDelim
		}
		return html.EscapeString(delim + span.tex + delim)
	}
	return out
}

// extractMath replaces every math span with an alphanumeric placeholder
// that markdown conversion passes through untouched. The placeholder prefix
// is chosen so it does not occur in source.
func extractMath(source string) (string, []mathSpan, string) {
	prefix := markdownPlaceholderPrefix
	for strings.Contains(source, prefix) {
		prefix += markdownPlaceholderPad
	}

	var b strings.Builder
	b.Grow(len(source))
	var spans []mathSpan

	add := func(tex string, display bool) {
		b.WriteString(placeholder(prefix, len(spans)))
		spans = append(spans, mathSpan{tex: tex, display: display})
	}

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '\\' && i+1 < len(source):
			b.WriteString(source[i : i+2])
			i += 2

		case c == '`':
			run := 1
			for i+run < len(source) && source[i+run] == '`' {
				run++
			}
			fence := source[i : i+run]
			end := strings.Index(source[i+run:], fence)
			if end < 0 {
				b.WriteString(fence)
				i += run
				continue
			}
			next := i + run + end + run
			b.WriteString(source[i:next])
			i = next

		case strings.HasPrefix(source[i:], markdownDisplayDelim):
			rest := source[i+len(markdownDisplayDelim):]
			end := indexUnescaped(rest, markdownDisplayDelim)
			if end < 0 || strings.TrimSpace(rest[:end]) == "" {
				b.WriteString(markdownDisplayDelim)
				i += len(markdownDisplayDelim)
				continue
			}
			add(strings.TrimSpace(rest[:end]), true)
			i += 2*len(markdownDisplayDelim) + end

		case c == '$':
			rest := source[i+1:]
			end := indexUnescaped(rest, markdownInlineDelim)
			if end <= 0 || !validInlineMath(rest[:end]) {
				b.WriteByte(c)
				i++
				continue
			}
			add(rest[:end], false)
			i += 2 + end

		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), spans, prefix
}

// validInlineMath reports whether tex can sit between single dollars.
func validInlineMath(tex string) bool {
	if strings.ContainsAny(tex, "\r\n") {
		return false
	}
	return !isSpace(tex[0]) && !isSpace(tex[len(tex)-1])
}

// indexUnescaped finds delim in s, skipping backslash escapes.
func indexUnescaped(s, delim string) int {
	for j := 0; j+len(delim) <= len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if strings.HasPrefix(s[j:], delim) {
			return j
		}
	}
	return -1
}

func placeholder(prefix string, i int) string {
	return prefix + strconv.Itoa(i) + markdownPlaceholderEnd
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
