package mathsnap

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Renderer.
type Option func(*rendererConfig)

// rendererConfig holds the internal configuration for a Renderer.
type rendererConfig struct {
	typesetter Typesetter
	defaults   *EngineOptions
	logger     *zap.Logger
}

// defaultRendererConfig returns the default renderer configuration.
func defaultRendererConfig() *rendererConfig {
	return &rendererConfig{
		typesetter: nil,
		defaults:   DefaultEngineOptions(),
		logger:     nil,
	}
}

// WithTypesetter sets the engine used for typesetting.
// Default: a MathMLTypesetter
func WithTypesetter(t Typesetter) Option {
	return func(c *rendererConfig) {
		c.typesetter = t
	}
}

// WithDefaults merges opts over the built-in engine defaults. Requests merge
// their own options over the result.
func WithDefaults(opts *EngineOptions) Option {
	return func(c *rendererConfig) {
		c.defaults = c.defaults.Merge(opts)
	}
}

// WithErrorColor sets the colour the engine uses to highlight errors.
// Default: "#f44336"
func WithErrorColor(color string) Option {
	return func(c *rendererConfig) {
		c.defaults = c.defaults.Merge(&EngineOptions{ErrorColor: Ptr(color)})
	}
}

// WithMacros adds default macros available to every request.
func WithMacros(macros map[string]string) Option {
	return func(c *rendererConfig) {
		c.defaults = c.defaults.Merge(&EngineOptions{Macros: macros})
	}
}

// WithLogger sets the logger for the renderer.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *rendererConfig) {
		c.logger = logger
	}
}
