package mathsnap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineOptions_Merge(t *testing.T) {
	base := &EngineOptions{
		ErrorColor: Ptr("#111111"),
		Macros:     map[string]string{`\R`: `\mathbb{R}`},
		Trust:      Ptr(false),
	}
	override := &EngineOptions{
		Macros:  map[string]string{`\R`: `\Re`, `\N`: `\mathbb{N}`},
		Trust:   Ptr(true),
		MaxSize: Ptr(10.0),
	}

	merged := base.Merge(override)

	assert.Equal(t, "#111111", *merged.ErrorColor)
	assert.Equal(t, map[string]string{`\R`: `\Re`, `\N`: `\mathbb{N}`}, merged.Macros)
	assert.True(t, *merged.Trust)
	assert.Equal(t, 10.0, *merged.MaxSize)

	t.Run("inputs untouched", func(t *testing.T) {
		assert.Equal(t, `\mathbb{R}`, base.Macros[`\R`])
		assert.False(t, *base.Trust)
		assert.Nil(t, base.MaxSize)
	})

	t.Run("nil override", func(t *testing.T) {
		c := base.Merge(nil)
		assert.Equal(t, base, c)
		assert.NotSame(t, base, c)
	})

	t.Run("nil base", func(t *testing.T) {
		var none *EngineOptions
		c := none.Merge(override)
		require.NotNil(t, c)
		assert.True(t, *c.Trust)
	})
}

func TestEngineOptions_Clone(t *testing.T) {
	var none *EngineOptions
	assert.Nil(t, none.Clone())

	o := &EngineOptions{Macros: map[string]string{`\a`: "b"}}
	c := o.Clone()
	c.Macros[`\a`] = "changed"
	assert.Equal(t, "b", o.Macros[`\a`])
}

func TestEngineOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    *EngineOptions
		wantErr bool
	}{
		{"nil", nil, false},
		{"empty", &EngineOptions{}, false},
		{"defaults", DefaultEngineOptions(), false},
		{"short colour", &EngineOptions{ErrorColor: Ptr("#abc")}, false},
		{"named colour", &EngineOptions{ErrorColor: Ptr("red")}, false},
		{"unknown colour", &EngineOptions{ErrorColor: Ptr("reddish")}, true},
		{"strict error", &EngineOptions{Strict: Ptr(StrictModeError)}, false},
		{"strict unknown", &EngineOptions{Strict: Ptr("sometimes")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveOptions(t *testing.T) {
	t.Run("forced fields", func(t *testing.T) {
		resolved := resolveOptions(DefaultEngineOptions(), &EngineOptions{
			ThrowOnError: Ptr(false),
			DisplayMode:  Ptr(true),
			Output:       Ptr(OutputMathML),
		}, false)

		assert.True(t, resolved.ThrowOnError)
		assert.False(t, resolved.DisplayMode)
		assert.Equal(t, OutputHTML, resolved.Output)
	})

	t.Run("unusable values fall back", func(t *testing.T) {
		resolved := resolveOptions(DefaultEngineOptions(), &EngineOptions{
			ErrorColor: Ptr("blue"),
			Strict:     Ptr("bogus"),
			MaxExpand:  Ptr(-1),
			MaxSize:    Ptr(-5.0),
		}, true)

		assert.Equal(t, DefaultErrorColor, resolved.ErrorColor)
		assert.Equal(t, DefaultStrictMode, resolved.Strict)
		assert.Equal(t, DefaultMaxExpand, resolved.MaxExpand)
		assert.Zero(t, resolved.MaxSize)
		assert.True(t, resolved.DisplayMode)
	})
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"#f44336", "#f44336", true},
		{"#F44336", "#f44336", true},
		{"f44336", "#f44336", true},
		{"#abc", "#aabbcc", true},
		{" #00ff00 ", "#00ff00", true},
		{"red", "#ff0000", true},
		{"Crimson", "#dc143c", true},
		{"black", "#000000", true},
		{"rgb(244, 67, 54)", "#f44336", true},
		{"RGB(0,0,255)", "#0000ff", true},
		{"hsl(0, 100%, 50%)", "#ff0000", true},
		{"hsl(120, 100%, 25%)", "#008000", true},
		{"rgb(256, 0, 0)", "", false},
		{"hsl(0, 101%, 50%)", "", false},
		{"rgb(1, 2)", "", false},
		{"reddish", "", false},
		{"#12345", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := NormalizeColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
