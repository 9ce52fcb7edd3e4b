package mathsnap

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file format.
//
//	engine: katex
//	katex_script: ./katex.min.js
//	error_color: "#cc0000"
//	macros:
//	  \R: \mathbb{R}
//	options:
//	  strict: ignore
//	cache:
//	  enabled: true
//	  ttl: 10m
//	server:
//	  addr: ":8080"
//	  rate_per_sec: 100
type Config struct {
	// Engine selects the typesetter: "mathml" (default) or "katex".
	Engine string `yaml:"engine"`

	// KaTeXScript is the path of katex.min.js, required for the katex engine.
	KaTeXScript string `yaml:"katex_script"`

	// KaTeXTimeout bounds a single KaTeX call. Default: 10s
	KaTeXTimeout time.Duration `yaml:"katex_timeout"`

	// ErrorColor overrides the engine error colour.
	ErrorColor string `yaml:"error_color"`

	// Macros are available to every equation.
	Macros map[string]string `yaml:"macros"`

	// Options are merged into the renderer defaults.
	Options *EngineOptions `yaml:"options"`

	Cache  CacheConfig  `yaml:"cache"`
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
}

// CacheConfig enables the result cache.
type CacheConfig struct {
	Enabled           bool `yaml:"enabled"`
	ResultCacheConfig `yaml:",inline"`
}

// ServerConfig configures the HTTP handler.
type ServerConfig struct {
	Addr       string  `yaml:"addr"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	RateBurst  int     `yaml:"rate_burst"`
}

// StoreConfig selects an equation store driver.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigReadFailed, path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig decodes YAML config data. path is only used in errors.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the engine name and option values.
func (c *Config) Validate() error {
	switch c.Engine {
	case "", TypesetterNameMathML:
	case TypesetterNameKaTeX:
		if c.KaTeXScript == "" {
			return NewConfigError(ErrMsgKaTeXScriptRequired, "", nil)
		}
	default:
		return NewUnknownEngineError(c.Engine)
	}
	if c.ErrorColor != "" {
		if _, ok := NormalizeColor(c.ErrorColor); !ok {
			return NewInvalidOptionError(katexOptErrorColor, c.ErrorColor, ErrMsgInvalidColor)
		}
	}
	return c.Options.Validate()
}

// Typesetter builds the configured engine.
func (c *Config) Typesetter() (Typesetter, error) {
	switch c.Engine {
	case "", TypesetterNameMathML:
		return NewMathMLTypesetter(), nil
	case TypesetterNameKaTeX:
		var opts []KaTeXOption
		if c.KaTeXTimeout > 0 {
			opts = append(opts, WithKaTeXTimeout(c.KaTeXTimeout))
		}
		return LoadKaTeXTypesetter(c.KaTeXScript, opts...)
	default:
		return nil, NewUnknownEngineError(c.Engine)
	}
}

// RendererOptions converts the config into renderer options. logger may be
// nil.
func (c *Config) RendererOptions(logger *zap.Logger) ([]Option, error) {
	typesetter, err := c.Typesetter()
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithTypesetter(typesetter),
		WithLogger(logger),
	}
	if c.Options != nil {
		opts = append(opts, WithDefaults(c.Options))
	}
	if len(c.Macros) > 0 {
		opts = append(opts, WithMacros(c.Macros))
	}
	if c.ErrorColor != "" {
		opts = append(opts, WithErrorColor(c.ErrorColor))
	}
	return opts, nil
}

// HandlerOptions converts the server and cache sections into handler options.
func (c *Config) HandlerOptions() []HandlerOption {
	var opts []HandlerOption
	if c.Server.RatePerSec > 0 {
		burst := c.Server.RateBurst
		if burst <= 0 {
			burst = DefaultRateBurst
		}
		opts = append(opts, WithRateLimit(c.Server.RatePerSec, burst))
	}
	if c.Cache.Enabled {
		opts = append(opts, WithResultCache(c.Cache.ResultCacheConfig))
	}
	return opts
}
