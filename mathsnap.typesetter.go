package mathsnap

// Typesetter is the boundary to a math typesetting engine. Typeset returns
// the rendered HTML fragment, or an error when the source cannot be typeset.
// With opts.ThrowOnError set, an engine must report malformed input as an
// error instead of returning degraded output.
//
// Implementations must be safe for concurrent use.
type Typesetter interface {
	// Name identifies the engine in logs and error metadata.
	Name() string

	// Typeset converts source to an HTML fragment.
	Typeset(source string, opts TypesetOptions) (string, error)
}

// TypesetterFunc adapts a function to the Typesetter interface.
type TypesetterFunc func(source string, opts TypesetOptions) (string, error)

// Name returns TypesetterNameFunc.
func (f TypesetterFunc) Name() string {
	return TypesetterNameFunc
}

// Typeset calls f.
func (f TypesetterFunc) Typeset(source string, opts TypesetOptions) (string, error) {
	return f(source, opts)
}
