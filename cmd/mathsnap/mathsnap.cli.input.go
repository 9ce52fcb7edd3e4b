package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-mathsnap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// sourceFlags selects the equation from -e or -i
type sourceFlags struct {
	equation string
	input    string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.equation, FlagEquation, "", "")
	fs.StringVar(&s.equation, FlagEquationShort, "", "")
	fs.StringVar(&s.input, FlagInput, "", "")
	fs.StringVar(&s.input, FlagInputShort, "", "")
}

func (s *sourceFlags) check() error {
	switch {
	case s.equation != "" && s.input != "":
		return errors.New(ErrMsgBothSources)
	case s.equation == "" && s.input == "":
		return errors.New(ErrMsgMissingEquation)
	}
	return nil
}

// read returns the equation source. File input loses its trailing newline.
func (s *sourceFlags) read(stdin io.Reader) (string, error) {
	if s.equation != "" {
		return s.equation, nil
	}
	data, err := readInput(s.input, stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// engineFlags selects and configures the typesetter
type engineFlags struct {
	config  string
	engine  string
	katex   string
	verbose bool
}

func (e *engineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&e.config, FlagConfig, "", "")
	fs.StringVar(&e.engine, FlagEngine, "", "")
	fs.StringVar(&e.katex, FlagKaTeX, "", "")
	fs.BoolVar(&e.verbose, FlagVerbose, false, "")
	fs.BoolVar(&e.verbose, FlagVerboseShort, false, "")
}

// loadConfig reads --config and applies the engine flags over it.
func (e *engineFlags) loadConfig() (*mathsnap.Config, error) {
	cfg := &mathsnap.Config{}
	if e.config != "" {
		loaded, err := mathsnap.LoadConfig(e.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if e.engine != "" {
		cfg.Engine = e.engine
	}
	if e.katex != "" {
		cfg.KaTeXScript = e.katex
		if e.engine == "" {
			cfg.Engine = mathsnap.TypesetterNameKaTeX
		}
	}
	if cfg.Engine == mathsnap.TypesetterNameKaTeX && cfg.KaTeXScript == "" {
		return nil, errors.New(ErrMsgKaTeXPathRequired)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRenderer builds a renderer from the config.
func newRenderer(cfg *mathsnap.Config, logger *zap.Logger) (*mathsnap.Renderer, error) {
	opts, err := cfg.RendererOptions(logger)
	if err != nil {
		return nil, err
	}
	return mathsnap.New(opts...)
}

// newLogger logs to stderr when verbose, otherwise discards.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(stderr), zapcore.DebugLevel))
}

func checkFormat(format string) error {
	if format != OutputFormatText && format != OutputFormatJSON {
		return errors.New(ErrMsgInvalidFormat)
	}
	return nil
}
