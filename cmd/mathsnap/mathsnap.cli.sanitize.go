package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-mathsnap"
)

type sanitizeConfig struct {
	source     sourceFlags
	outputPath string
}

func runSanitize(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseSanitizeFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, CmdNameSanitize, err)
		return ExitCodeUsageError
	}

	source, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	output := []byte(mathsnap.Sanitize(source) + FmtNewline)
	if err := writeOutput(cfg.outputPath, output, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseSanitizeFlags(args []string) (*sanitizeConfig, error) {
	fs := flag.NewFlagSet(CmdNameSanitize, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &sanitizeConfig{}
	cfg.source.register(fs)
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.source.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}
