package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-mathsnap"
)

type listConfig struct {
	format   string
	store    string
	storeDSN string
}

// listEntry is one row of list output
type listEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Equation    string `json:"equation"`
}

func runList(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseListFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, CmdNameList, err)
		return ExitCodeUsageError
	}

	var entries []listEntry
	if cfg.store == "" {
		for _, eq := range mathsnap.Equations() {
			entries = append(entries, listEntry{Name: eq.Name, Description: eq.Description, Equation: eq.Source})
		}
	} else {
		store, err := mathsnap.OpenStore(cfg.store, cfg.storeDSN)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStoreFailed, err)
			return ExitCodeError
		}
		defer store.Close()

		stored, err := store.List(context.Background(), &mathsnap.EquationQuery{})
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgListFailed, err)
			return ExitCodeError
		}
		for _, eq := range stored {
			entries = append(entries, listEntry{Name: eq.Name, Description: eq.Description, Equation: eq.Source})
		}
	}

	if cfg.format == OutputFormatJSON {
		if entries == nil {
			entries = []listEntry{}
		}
		jsonBytes, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, e := range entries {
		fmt.Fprintf(stdout, ListTextFormat, e.Name, e.Equation)
	}
	return ExitCodeSuccess
}

func parseListFlags(args []string) (*listConfig, error) {
	fs := flag.NewFlagSet(CmdNameList, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &listConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.store, FlagStore, "", "")
	fs.StringVar(&cfg.storeDSN, FlagStoreDSN, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := checkFormat(cfg.format); err != nil {
		return nil, err
	}
	return cfg, nil
}
