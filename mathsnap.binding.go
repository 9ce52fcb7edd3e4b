package mathsnap

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"
	"sync"
)

// Props are the inputs of a presentational equation element.
type Props struct {
	// Equation is the raw math source. It is sanitized before rendering.
	Equation string

	// DisplayMode selects block rendering. Default: inline
	DisplayMode bool

	// ClassName is appended to the generated class list.
	ClassName string

	// Style holds extra CSS properties. max-width, overflow-x and display
	// are always set by the element and override entries here.
	Style map[string]string

	// Options are forwarded to the renderer.
	Options *EngineOptions

	// OnError is called when the equation fails to render.
	OnError func(error)

	// As overrides the container tag: span, div or p.
	As string
}

// RenderElement sanitizes and renders props and wraps the output in its
// container element.
func RenderElement(r *Renderer, props Props) string {
	result := r.Render(RenderRequest{
		Source:      Sanitize(props.Equation),
		DisplayMode: props.DisplayMode,
		Options:     props.Options,
		OnError:     props.OnError,
	})

	tag := containerTag(props)
	return fmt.Sprintf(ElementFormat,
		tag,
		html.EscapeString(elementClass(props)),
		html.EscapeString(elementStyle(props)),
		result.HTML,
		tag)
}

func containerTag(props Props) string {
	switch props.As {
	case ContainerSpan, ContainerDiv, ContainerP:
		return props.As
	}
	if props.DisplayMode {
		return ContainerDiv
	}
	return ContainerSpan
}

func elementClass(props Props) string {
	mode := ClassInline
	if props.DisplayMode {
		mode = ClassDisplay
	}
	classes := ClassEquation + " " + mode
	if extra := strings.TrimSpace(props.ClassName); extra != "" {
		classes += " " + extra
	}
	return classes
}

// elementStyle writes caller properties in sorted order followed by the
// forced layout properties.
func elementStyle(props Props) string {
	display := CSSDisplayInlineBlock
	if props.DisplayMode {
		display = CSSDisplayBlock
	}
	forced := map[string]string{
		StylePropMaxWidth:  StyleValueMaxWidth,
		StylePropOverflowX: StyleValueOverflowX,
		StylePropDisplay:   display,
	}

	keys := make([]string, 0, len(props.Style))
	for key := range props.Style {
		if _, isForced := forced[key]; !isForced {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		writeStyleProp(&b, key, props.Style[key])
	}
	writeStyleProp(&b, StylePropMaxWidth, StyleValueMaxWidth)
	writeStyleProp(&b, StylePropOverflowX, StyleValueOverflowX)
	writeStyleProp(&b, StylePropDisplay, display)
	return b.String()
}

func writeStyleProp(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte(';')
}

// Binding keeps the rendered element for a changing set of props and only
// re-renders when the equation, display mode, options or presentation
// change. A new OnError callback alone does not trigger a render.
type Binding struct {
	mu       sync.Mutex
	renderer *Renderer
	onChange func(string)
	key      string
	html     string
	rendered bool
}

// NewBinding creates a Binding. onChange, if non-nil, receives the element
// HTML every time it is re-rendered.
func NewBinding(r *Renderer, onChange func(string)) *Binding {
	return &Binding{
		renderer: r,
		onChange: onChange,
	}
}

// Update applies props and returns the current element HTML and whether a
// render happened.
func (b *Binding) Update(props Props) (string, bool) {
	b.mu.Lock()
	key := bindingKey(props)
	if b.rendered && key == b.key {
		out := b.html
		b.mu.Unlock()
		return out, false
	}

	out := RenderElement(b.renderer, props)
	b.key = key
	b.html = out
	b.rendered = true
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(out)
	}
	return out, true
}

// HTML returns the last rendered element, or "" before the first Update.
func (b *Binding) HTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}

func bindingKey(props Props) string {
	return strings.Join([]string{
		RequestKey(RenderRequest{
			Source:      Sanitize(props.Equation),
			DisplayMode: props.DisplayMode,
			Options:     props.Options,
		}),
		containerTag(props),
		elementClass(props),
		elementStyle(props),
	}, "\x00")
}

// FuncMap returns html/template functions that render inline ("math") and
// display ("displayMath") equations with r.
//
//	{{ math "E = mc^2" }}
//	{{ displayMath .Formula }}
func FuncMap(r *Renderer) template.FuncMap {
	return template.FuncMap{
		FuncNameMath: func(source string) template.HTML {
			return template.HTML(RenderElement(r, Props{Equation: source}))
		},
		FuncNameDisplayMath: func(source string) template.HTML {
			return template.HTML(RenderElement(r, Props{Equation: source, DisplayMode: true}))
		},
	}
}
