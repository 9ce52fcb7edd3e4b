package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-mathsnap"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	source     sourceFlags
	engine     engineFlags
	outputPath string
	format     string
	display    bool
	sanitize   bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, CmdNameRender, err)
		return ExitCodeUsageError
	}

	source, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}
	if cfg.sanitize {
		source = mathsnap.Sanitize(source)
	}

	appCfg, err := cfg.engine.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeUsageError
	}
	renderer, err := newRenderer(appCfg, newLogger(cfg.engine.verbose, stderr))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRendererFailed, err)
		return ExitCodeError
	}

	result := renderer.Render(mathsnap.RenderRequest{
		Source:      source,
		DisplayMode: cfg.display,
	})

	var output []byte
	if cfg.format == OutputFormatJSON {
		output, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
			return ExitCodeError
		}
		output = append(output, FmtNewline...)
	} else {
		output = []byte(result.HTML + FmtNewline)
	}

	if err := writeOutput(cfg.outputPath, output, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	if result.Error.HasError {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgRenderFailed, result.Error.Message)
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	cfg.source.register(fs)
	cfg.engine.register(fs)
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.display, FlagDisplay, false, "")
	fs.BoolVar(&cfg.sanitize, FlagSanitize, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: %s", ErrMsgUnexpectedArgument, fs.Arg(0))
	}
	if err := cfg.source.check(); err != nil {
		return nil, err
	}
	if err := checkFormat(cfg.format); err != nil {
		return nil, err
	}

	return cfg, nil
}
