package mathsnap

import (
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/teacat/noire"
)

// EngineOptions holds optional typesetting engine settings. A nil field means
// "not set" and leaves the underlying value untouched during a merge.
//
// DisplayMode, ThrowOnError and Output are accepted for symmetry with the
// engine options but the renderer always overrides them: display mode comes
// from the request, errors are always thrown and output is always HTML.
type EngineOptions struct {
	ErrorColor       *string           `json:"errorColor,omitempty" yaml:"error_color,omitempty"`
	Macros           map[string]string `json:"macros,omitempty" yaml:"macros,omitempty"`
	MinRuleThickness *float64          `json:"minRuleThickness,omitempty" yaml:"min_rule_thickness,omitempty"`
	MaxSize          *float64          `json:"maxSize,omitempty" yaml:"max_size,omitempty"`
	MaxExpand        *int              `json:"maxExpand,omitempty" yaml:"max_expand,omitempty"`
	Strict           *string           `json:"strict,omitempty" yaml:"strict,omitempty"`
	Trust            *bool             `json:"trust,omitempty" yaml:"trust,omitempty"`
	Fleqn            *bool             `json:"fleqn,omitempty" yaml:"fleqn,omitempty"`
	Leqno            *bool             `json:"leqno,omitempty" yaml:"leqno,omitempty"`
	ColorIsTextColor *bool             `json:"colorIsTextColor,omitempty" yaml:"color_is_text_color,omitempty"`
	GlobalGroup      *bool             `json:"globalGroup,omitempty" yaml:"global_group,omitempty"`

	DisplayMode  *bool   `json:"displayMode,omitempty" yaml:"display_mode,omitempty"`
	ThrowOnError *bool   `json:"throwOnError,omitempty" yaml:"throw_on_error,omitempty"`
	Output       *string `json:"output,omitempty" yaml:"output,omitempty"`
}

// TypesetOptions is the fully resolved option set handed to a Typesetter.
// Zero numeric values mean "engine default".
type TypesetOptions struct {
	DisplayMode      bool
	ThrowOnError     bool
	Output           string
	ErrorColor       string
	Macros           map[string]string
	MinRuleThickness float64
	MaxSize          float64
	MaxExpand        int
	Strict           string
	Trust            bool
	Fleqn            bool
	Leqno            bool
	ColorIsTextColor bool
	GlobalGroup      bool
}

// Ptr returns a pointer to v. Handy for filling EngineOptions literals.
func Ptr[T any](v T) *T {
	return &v
}

// DefaultEngineOptions returns the built-in engine defaults.
func DefaultEngineOptions() *EngineOptions {
	return &EngineOptions{
		ErrorColor:   Ptr(DefaultErrorColor),
		MaxExpand:    Ptr(DefaultMaxExpand),
		Strict:       Ptr(DefaultStrictMode),
		ThrowOnError: Ptr(true),
		Output:       Ptr(OutputHTML),
	}
}

// Clone returns a deep copy of o. Cloning nil yields nil.
func (o *EngineOptions) Clone() *EngineOptions {
	if o == nil {
		return nil
	}
	c := *o
	if o.Macros != nil {
		c.Macros = maps.Clone(o.Macros)
	}
	return &c
}

// Merge returns a new EngineOptions where every field set in override
// replaces the one in o. Macros are merged key by key, override winning.
// Neither input is modified.
func (o *EngineOptions) Merge(override *EngineOptions) *EngineOptions {
	merged := o.Clone()
	if merged == nil {
		merged = &EngineOptions{}
	}
	if override == nil {
		return merged
	}

	if override.ErrorColor != nil {
		merged.ErrorColor = Ptr(*override.ErrorColor)
	}
	if len(override.Macros) > 0 {
		if merged.Macros == nil {
			merged.Macros = make(map[string]string, len(override.Macros))
		}
		maps.Copy(merged.Macros, override.Macros)
	}
	if override.MinRuleThickness != nil {
		merged.MinRuleThickness = Ptr(*override.MinRuleThickness)
	}
	if override.MaxSize != nil {
		merged.MaxSize = Ptr(*override.MaxSize)
	}
	if override.MaxExpand != nil {
		merged.MaxExpand = Ptr(*override.MaxExpand)
	}
	if override.Strict != nil {
		merged.Strict = Ptr(*override.Strict)
	}
	if override.Trust != nil {
		merged.Trust = Ptr(*override.Trust)
	}
	if override.Fleqn != nil {
		merged.Fleqn = Ptr(*override.Fleqn)
	}
	if override.Leqno != nil {
		merged.Leqno = Ptr(*override.Leqno)
	}
	if override.ColorIsTextColor != nil {
		merged.ColorIsTextColor = Ptr(*override.ColorIsTextColor)
	}
	if override.GlobalGroup != nil {
		merged.GlobalGroup = Ptr(*override.GlobalGroup)
	}
	if override.DisplayMode != nil {
		merged.DisplayMode = Ptr(*override.DisplayMode)
	}
	if override.ThrowOnError != nil {
		merged.ThrowOnError = Ptr(*override.ThrowOnError)
	}
	if override.Output != nil {
		merged.Output = Ptr(*override.Output)
	}
	return merged
}

// Validate checks option values that an engine could not interpret.
func (o *EngineOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.ErrorColor != nil {
		if _, ok := NormalizeColor(*o.ErrorColor); !ok {
			return NewInvalidOptionError(katexOptErrorColor, *o.ErrorColor, ErrMsgInvalidColor)
		}
	}
	if o.Strict != nil && !isStrictMode(*o.Strict) {
		return NewInvalidOptionError(katexOptStrict, *o.Strict, ErrMsgInvalidStrictMode)
	}
	return nil
}

// resolveOptions merges caller over defaults and then re-asserts the three
// forced fields. It never fails: unusable values fall back to defaults.
func resolveOptions(defaults, caller *EngineOptions, displayMode bool) TypesetOptions {
	merged := defaults.Merge(caller)

	merged.ThrowOnError = Ptr(true)
	merged.DisplayMode = Ptr(displayMode)
	merged.Output = Ptr(OutputHTML)

	resolved := TypesetOptions{
		DisplayMode:  *merged.DisplayMode,
		ThrowOnError: *merged.ThrowOnError,
		Output:       *merged.Output,
		ErrorColor:   DefaultErrorColor,
		Macros:       merged.Macros,
		MaxExpand:    DefaultMaxExpand,
		Strict:       DefaultStrictMode,
	}

	if merged.ErrorColor != nil {
		if color, ok := NormalizeColor(*merged.ErrorColor); ok {
			resolved.ErrorColor = color
		}
	}
	if merged.MinRuleThickness != nil && *merged.MinRuleThickness > 0 {
		resolved.MinRuleThickness = *merged.MinRuleThickness
	}
	if merged.MaxSize != nil && *merged.MaxSize > 0 {
		resolved.MaxSize = *merged.MaxSize
	}
	if merged.MaxExpand != nil && *merged.MaxExpand > 0 {
		resolved.MaxExpand = *merged.MaxExpand
	}
	if merged.Strict != nil && isStrictMode(*merged.Strict) {
		resolved.Strict = *merged.Strict
	}
	resolved.Trust = deref(merged.Trust)
	resolved.Fleqn = deref(merged.Fleqn)
	resolved.Leqno = deref(merged.Leqno)
	resolved.ColorIsTextColor = deref(merged.ColorIsTextColor)
	resolved.GlobalGroup = deref(merged.GlobalGroup)

	return resolved
}

var (
	hexColorPattern  = regexp.MustCompile(`^#?(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	rgbColorPattern  = regexp.MustCompile(`^(?i)rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	hslColorPattern  = regexp.MustCompile(`^(?i)hsl\(\s*(\d{1,3}(?:\.\d+)?)\s*,\s*(\d{1,3}(?:\.\d+)?)%\s*,\s*(\d{1,3}(?:\.\d+)?)%\s*\)$`)
	nameColorPattern = regexp.MustCompile(`^[A-Za-z]+$`)
)

// NormalizeColor converts a CSS colour to lower-case "#rrggbb". Accepted
// forms are hex ("#F44336", "f43"), rgb(244, 67, 54), hsl(4, 90%, 58%) and
// CSS colour names ("crimson"). It reports false for anything else.
func NormalizeColor(color string) (string, bool) {
	color = strings.TrimSpace(color)

	var c noire.Color
	switch {
	case hexColorPattern.MatchString(color):
		c = noire.NewHex(strings.TrimPrefix(color, "#"))
	case rgbColorPattern.MatchString(color):
		r, g, b, ok := parseColorTriple(rgbColorPattern.FindStringSubmatch(color), 255, 255, 255)
		if !ok {
			return "", false
		}
		c = noire.NewRGB(r, g, b)
	case hslColorPattern.MatchString(color):
		h, s, l, ok := parseColorTriple(hslColorPattern.FindStringSubmatch(color), 360, 100, 100)
		if !ok {
			return "", false
		}
		c = noire.NewHSL(h, s, l)
	case nameColorPattern.MatchString(color):
		c = noire.NewHTML(color)
		// noire maps unknown names to black
		if c.Hex() == colorHexBlack && !strings.EqualFold(color, colorNameBlack) {
			return "", false
		}
	default:
		return "", false
	}

	return "#" + strings.ToLower(c.Hex()), true
}

// parseColorTriple parses the three captured components of match, each
// bounded by its max.
func parseColorTriple(match []string, max1, max2, max3 float64) (float64, float64, float64, bool) {
	if len(match) != 4 {
		return 0, 0, 0, false
	}
	limits := [3]float64{max1, max2, max3}
	var out [3]float64
	for i := range out {
		v, err := strconv.ParseFloat(match[i+1], 64)
		if err != nil || v > limits[i] {
			return 0, 0, 0, false
		}
		out[i] = v
	}
	return out[0], out[1], out[2], true
}

func isStrictMode(mode string) bool {
	switch mode {
	case StrictModeIgnore, StrictModeWarn, StrictModeError:
		return true
	}
	return false
}

func deref(b *bool) bool {
	return b != nil && *b
}
