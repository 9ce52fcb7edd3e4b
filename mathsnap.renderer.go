package mathsnap

import (
	"fmt"
	"html"
	"sync"

	"github.com/itsatony/go-mathsnap/internal"
	"go.uber.org/zap"
)

// Renderer renders equations through a Typesetter and turns every failure
// into a fallback fragment. A Renderer is immutable and safe for concurrent
// use.
type Renderer struct {
	typesetter Typesetter
	defaults   *EngineOptions
	logger     *zap.Logger
}

// New creates a Renderer with the given options.
func New(opts ...Option) (*Renderer, error) {
	config := defaultRendererConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := config.defaults.Validate(); err != nil {
		return nil, err
	}
	if err := internal.ValidateMacroNames(config.defaults.Macros); err != nil {
		return nil, NewInvalidOptionError(katexOptMacros, "", err.Error())
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	typesetter := config.typesetter
	if typesetter == nil {
		typesetter = NewMathMLTypesetter()
	}

	return &Renderer{
		typesetter: typesetter,
		defaults:   config.defaults,
		logger:     logger,
	}, nil
}

// MustNew creates a new Renderer and panics if there's an error.
func MustNew(opts ...Option) *Renderer {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Typesetter returns the engine used by the renderer.
func (r *Renderer) Typesetter() Typesetter {
	return r.typesetter
}

// Defaults returns a copy of the renderer's default engine options.
func (r *Renderer) Defaults() *EngineOptions {
	return r.defaults.Clone()
}

// Render typesets req.Source. It never panics or returns an error: on
// failure the result carries the fallback fragment and the message, and
// req.OnError is called once with the failure before Render returns.
func (r *Renderer) Render(req RenderRequest) RenderResult {
	opts := resolveOptions(r.defaults, req.Options, req.DisplayMode)

	out, err := r.typeset(req.Source, opts)
	if err == nil {
		r.logger.Debug(LogMsgRendered,
			zap.String(LogFieldEngine, r.typesetter.Name()),
			zap.Bool(LogFieldDisplayMode, req.DisplayMode),
			zap.Int(LogFieldLength, len(out)))
		return RenderResult{HTML: out}
	}

	message := MessageOf(err)
	if req.OnError != nil {
		req.OnError(err)
	}

	r.logger.Warn(LogMsgRenderFailed,
		zap.String(LogFieldEngine, r.typesetter.Name()),
		zap.Bool(LogFieldDisplayMode, req.DisplayMode),
		zap.String(LogFieldMessage, message),
		zap.Error(err))

	return RenderResult{
		HTML: ErrorFragment(message, req.DisplayMode),
		Error: MathError{
			HasError: true,
			Message:  message,
		},
	}
}

// IsValid reports whether source can be typeset with the renderer defaults.
// The rendered output is discarded.
func (r *Renderer) IsValid(source string) bool {
	opts := resolveOptions(r.defaults, nil, false)
	_, err := r.typeset(source, opts)
	return err == nil
}

// Check typesets source like IsValid but returns the failure.
func (r *Renderer) Check(source string) error {
	opts := resolveOptions(r.defaults, nil, false)
	_, err := r.typeset(source, opts)
	return err
}

// typeset calls the engine, converting a panic into an engine error.
func (r *Renderer) typeset(source string, opts TypesetOptions) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = NewEngineError(ErrMsgEnginePanic, r.typesetter.Name(), fmt.Errorf("%v", rec))
		}
	}()
	return r.typesetter.Typeset(source, opts)
}

// ErrorFragment builds the fallback fragment shown in place of an equation.
// The block or inline-block display keeps surrounding layout stable.
func ErrorFragment(message string, displayMode bool) string {
	if message == "" {
		message = UnknownErrorMessage
	}
	display := CSSDisplayInlineBlock
	if displayMode {
		display = CSSDisplayBlock
	}
	return fmt.Sprintf(ErrorFragmentFormat, DefaultErrorColor, DefaultErrorColor, display, html.EscapeString(message))
}

var defaultRenderer = sync.OnceValue(func() *Renderer {
	return MustNew()
})

// Default returns the shared renderer used by the package level functions.
func Default() *Renderer {
	return defaultRenderer()
}

// Render renders req with the default renderer.
func Render(req RenderRequest) RenderResult {
	return Default().Render(req)
}

// IsValid reports whether source can be typeset by the default renderer.
func IsValid(source string) bool {
	return Default().IsValid(source)
}
