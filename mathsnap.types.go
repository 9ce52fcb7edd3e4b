package mathsnap

// RenderRequest describes a single equation to render.
type RenderRequest struct {
	// Source is the math source, e.g. `E = mc^2`.
	Source string `json:"equation" yaml:"equation"`

	// DisplayMode renders a centered block instead of inline math.
	DisplayMode bool `json:"displayMode,omitempty" yaml:"display_mode,omitempty"`

	// Options are merged over the renderer defaults. May be nil.
	Options *EngineOptions `json:"options,omitempty" yaml:"options,omitempty"`

	// OnError is invoked synchronously, at most once, when rendering fails.
	OnError func(error) `json:"-" yaml:"-"`
}

// RenderResult is the outcome of rendering. HTML is always a usable
// fragment: typeset math on success, the fallback fragment on failure.
type RenderResult struct {
	HTML  string    `json:"html"`
	Error MathError `json:"error"`
}

// MathError is the error state of a render.
type MathError struct {
	HasError bool   `json:"hasError"`
	Message  string `json:"message"`
}

// OK reports whether the render succeeded.
func (r RenderResult) OK() bool {
	return !r.Error.HasError
}
