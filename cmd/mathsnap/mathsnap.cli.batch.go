package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-mathsnap"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"
)

// batchConfig holds parsed batch command configuration
type batchConfig struct {
	engine      engineFlags
	inputPath   string
	outputPath  string
	concurrency int
	progress    bool
}

// batchItem is one entry of the batch file
type batchItem struct {
	Name                   string `yaml:"name,omitempty"`
	mathsnap.RenderRequest `yaml:",inline"`
}

// batchOutput is one entry of the JSON result array
type batchOutput struct {
	Name string `json:"name,omitempty"`
	mathsnap.RenderResult
}

func runBatch(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseBatchFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, CmdNameBatch, err)
		return ExitCodeUsageError
	}

	data, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	var items []batchItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBatchParseFailed, err)
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

	reqs := make([]mathsnap.RenderRequest, len(items))
	for i, item := range items {
		reqs[i] = item.RenderRequest
	}

	var onDone func(int, mathsnap.RenderResult)
	if cfg.progress && len(reqs) > 0 {
		bar := newProgressBar(len(reqs), stderr)
		onDone = func(int, mathsnap.RenderResult) {
			_ = bar.Add(1)
		}
		defer func() {
			_ = bar.Finish()
			fmt.Fprint(stderr, FmtNewline)
		}()
	}

	results, err := renderer.RenderBatchFunc(context.Background(), reqs, cfg.concurrency, onDone)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBatchFailed, err)
		return ExitCodeError
	}

	output := make([]batchOutput, len(results))
	failed := 0
	for i, result := range results {
		output[i] = batchOutput{Name: items[i].Name, RenderResult: result}
		if result.Error.HasError {
			failed++
		}
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	jsonBytes = append(jsonBytes, FmtNewline...)
	if err := writeOutput(cfg.outputPath, jsonBytes, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	if failed > 0 {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseBatchFlags(args []string) (*batchConfig, error) {
	fs := flag.NewFlagSet(CmdNameBatch, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &batchConfig{}
	cfg.engine.register(fs)
	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.IntVar(&cfg.concurrency, FlagConcurrency, mathsnap.DefaultBatchConcurrency, "")
	fs.BoolVar(&cfg.progress, FlagProgress, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.inputPath == "" {
		return nil, errors.New(ErrMsgMissingBatchInput)
	}
	return cfg, nil
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(ProgressDescription),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
