package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-mathsnap"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	source sourceFlags
	engine engineFlags
	format string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, CmdNameValidate, err)
		return ExitCodeUsageError
	}

	source, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
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

	checkErr := renderer.Check(source)

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(checkErr, stdout)
	}
	return outputValidationText(checkErr, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateConfig{}

	cfg.source.register(fs)
	cfg.engine.register(fs)
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.source.check(); err != nil {
		return nil, err
	}
	if err := checkFormat(cfg.format); err != nil {
		return nil, err
	}

	return cfg, nil
}

func outputValidationJSON(checkErr error, stdout io.Writer) int {
	output := validationOutput{Valid: checkErr == nil}
	if checkErr != nil {
		output.Message = mathsnap.MessageOf(checkErr)
		if pos, ok := mathsnap.PositionOf(checkErr); ok {
			output.Line = pos.Line
			output.Column = pos.Column
		}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return ExitCodeError
	}
	fmt.Fprintln(stdout, string(data))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func outputValidationText(checkErr error, stdout io.Writer) int {
	if checkErr == nil {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, ValidationTextFailure, mathsnap.MessageOf(checkErr))
	if pos, ok := mathsnap.PositionOf(checkErr); ok && pos.Line > 0 {
		fmt.Fprintf(stdout, ValidationTextAt, pos.String())
	}
	fmt.Fprint(stdout, FmtNewline)
	return ExitCodeValidationError
}
