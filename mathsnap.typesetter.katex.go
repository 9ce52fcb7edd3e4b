package mathsnap

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// KaTeXTypesetter runs a KaTeX bundle (katex.min.js) inside a goja runtime
// and calls katex.renderToString. KaTeX parse errors become math syntax
// errors carrying KaTeX's message and position.
//
// goja runtimes are single-threaded; calls are serialized by a mutex.
type KaTeXTypesetter struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	render  goja.Callable
	timeout time.Duration
}

// KaTeXOption configures a KaTeXTypesetter.
type KaTeXOption func(*KaTeXTypesetter)

// WithKaTeXTimeout bounds a single renderToString call. Zero disables the
// limit. Default: 10 seconds
func WithKaTeXTimeout(d time.Duration) KaTeXOption {
	return func(t *KaTeXTypesetter) {
		t.timeout = d
	}
}

var errKaTeXTimeout = errors.New(ErrMsgKaTeXTimeout)

// NewKaTeXTypesetter evaluates script and binds katex.renderToString.
func NewKaTeXTypesetter(script string, opts ...KaTeXOption) (*KaTeXTypesetter, error) {
	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, NewEngineError(ErrMsgKaTeXScriptFailed, TypesetterNameKaTeX, err)
	}

	katex := vm.Get(katexGlobalName)
	if isNullish(katex) {
		return nil, NewEngineError(ErrMsgKaTeXMissing, TypesetterNameKaTeX, nil)
	}

	render, ok := goja.AssertFunction(katex.ToObject(vm).Get(katexRenderFunc))
	if !ok {
		return nil, NewEngineError(ErrMsgKaTeXMissing, TypesetterNameKaTeX, nil)
	}

	t := &KaTeXTypesetter{
		vm:      vm,
		render:  render,
		timeout: katexDefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// LoadKaTeXTypesetter reads a KaTeX bundle from path.
func LoadKaTeXTypesetter(path string, opts ...KaTeXOption) (*KaTeXTypesetter, error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return nil, NewEngineError(ErrMsgKaTeXReadFailed, TypesetterNameKaTeX, err)
	}
	return NewKaTeXTypesetter(string(script), opts...)
}

// Name returns TypesetterNameKaTeX.
func (t *KaTeXTypesetter) Name() string {
	return TypesetterNameKaTeX
}

// Typeset calls katex.renderToString(source, options).
func (t *KaTeXTypesetter) Typeset(source string, opts TypesetOptions) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timeout > 0 {
		defer t.vm.ClearInterrupt()
		timer := time.AfterFunc(t.timeout, func() {
			t.vm.Interrupt(errKaTeXTimeout)
		})
		defer timer.Stop()
	}

	result, err := t.render(goja.Undefined(), t.vm.ToValue(source), t.vm.ToValue(katexOptions(opts)))
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", NewEngineError(ErrMsgKaTeXTimeout, t.Name(), err)
		}

		var exception *goja.Exception
		if errors.As(err, &exception) {
			message, pos := t.exceptionDetails(exception)
			return "", NewMathSyntaxError(message, pos, t.Name(), err)
		}

		return "", NewEngineError(ErrMsgEngineFailed, t.Name(), err)
	}

	if isNullish(result) {
		return "", nil
	}
	return result.String(), nil
}

// exceptionDetails reads message and position from a thrown KaTeX ParseError.
func (t *KaTeXTypesetter) exceptionDetails(exception *goja.Exception) (string, Position) {
	value := exception.Value()
	if isNullish(value) {
		return "", Position{}
	}

	obj, ok := value.(*goja.Object)
	if !ok {
		return value.String(), Position{}
	}

	message := ""
	if m := obj.Get(katexMessageProp); !isNullish(m) {
		message = m.String()
	}

	pos := Position{}
	if p := obj.Get(katexPositionProp); !isNullish(p) {
		pos.Offset = int(p.ToInteger())
	}
	return message, pos
}

// katexOptions builds the options object passed to renderToString.
func katexOptions(opts TypesetOptions) map[string]any {
	out := map[string]any{
		katexOptDisplayMode:      opts.DisplayMode,
		katexOptThrowOnError:     opts.ThrowOnError,
		katexOptErrorColor:       opts.ErrorColor,
		katexOptOutput:           opts.Output,
		katexOptMaxExpand:        opts.MaxExpand,
		katexOptStrict:           opts.Strict,
		katexOptTrust:            opts.Trust,
		katexOptFleqn:            opts.Fleqn,
		katexOptLeqno:            opts.Leqno,
		katexOptColorIsTextColor: opts.ColorIsTextColor,
		katexOptGlobalGroup:      opts.GlobalGroup,
	}

	// KaTeX writes \gdef definitions into the macros object.
	macros := make(map[string]any, len(opts.Macros))
	for name, body := range opts.Macros {
		macros[name] = body
	}
	out[katexOptMacros] = macros

	if opts.MinRuleThickness > 0 {
		out[katexOptMinRuleThickness] = opts.MinRuleThickness
	}
	if opts.MaxSize > 0 {
		out[katexOptMaxSize] = opts.MaxSize
	}
	return out
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}
