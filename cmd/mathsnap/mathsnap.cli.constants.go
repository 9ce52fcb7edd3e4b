package main

import "time"

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameSanitize = "sanitize"
	CmdNameBatch    = "batch"
	CmdNameList     = "list"
	CmdNameServe    = "serve"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagEquation    = "equation"
	FlagInput       = "input"
	FlagOutput      = "output"
	FlagFormat      = "format"
	FlagDisplay     = "display"
	FlagConfig      = "config"
	FlagEngine      = "engine"
	FlagKaTeX       = "katex"
	FlagSanitize    = "sanitize"
	FlagProgress    = "progress"
	FlagConcurrency = "concurrency"
	FlagAddr        = "addr"
	FlagStore       = "store"
	FlagStoreDSN    = "store-dsn"
	FlagVerbose     = "verbose"
)

// Flag names - short form
const (
	FlagEquationShort = "e"
	FlagInputShort    = "i"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
	FlagDefaultAddr   = ":8080"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Server timeouts
const (
	ServerReadHeaderTimeout = 10 * time.Second
	ServerShutdownTimeout   = 5 * time.Second
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgMissingEquation    = "equation required (-e or -i)"
	ErrMsgBothSources        = "use either -e or -i, not both"
	ErrMsgMissingBatchInput  = "batch file required (-i)"
	ErrMsgReadFileFailed     = "failed to read file"
	ErrMsgWriteOutputFailed  = "failed to write output"
	ErrMsgInvalidFormat      = "invalid output format"
	ErrMsgRendererFailed     = "failed to create renderer"
	ErrMsgConfigFailed       = "failed to load config"
	ErrMsgBatchParseFailed   = "failed to parse batch file"
	ErrMsgBatchFailed        = "batch rendering failed"
	ErrMsgRenderFailed       = "equation could not be rendered"
	ErrMsgOpenStoreFailed    = "failed to open equation store"
	ErrMsgListFailed         = "failed to list equations"
	ErrMsgServeFailed        = "server failed"
	ErrMsgKaTeXPathRequired  = "--katex path required for the katex engine"
	ErrMsgUnexpectedArgument = "unexpected argument"
)

// Help text templates
const (
	HelpMainUsage = `mathsnap - Render LaTeX equations to HTML with error recovery

Usage:
    mathsnap <command> [options]

Commands:
    render      Render an equation to HTML
    validate    Check that an equation can be rendered
    sanitize    Strip HTML tags and scripts from an equation
    batch       Render every equation in a YAML file
    list        List predefined or stored equations
    serve       Serve the renderer over HTTP
    version     Show version information
    help        Show help for a command

Use "mathsnap help <command>" for more information about a command.`

	HelpRenderUsage = `Render an equation to HTML

Usage:
    mathsnap render [options]

Options:
    -e, --equation <tex>    Equation source
    -i, --input <file>      Equation file (use "-" for stdin)
    -o, --output <file>     Output file (default: stdout)
    -F, --format <format>   Output format: text, json (default: text)
    --display               Render in display (block) mode
    --sanitize              Strip HTML from the source before rendering
    --config <file>         YAML config file
    --engine <name>         Typesetting engine: mathml, katex (default: mathml)
    --katex <file>          Path to katex.min.js for the katex engine
    -v, --verbose           Log to stderr

A failed render still prints the fallback HTML and exits with code 3.

Examples:
    mathsnap render -e 'E = mc^2'
    mathsnap render -e '\frac{a}{b}' --display -F json
    echo 'x^2' | mathsnap render -i -
    mathsnap render -i eq.tex --engine katex --katex ./katex.min.js`

	HelpValidateUsage = `Check that an equation can be rendered

Usage:
    mathsnap validate [options]

Options:
    -e, --equation <tex>    Equation source
    -i, --input <file>      Equation file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --config <file>         YAML config file
    --engine <name>         Typesetting engine: mathml, katex
    --katex <file>          Path to katex.min.js

Examples:
    mathsnap validate -e '\frac{a}{b}'
    mathsnap validate -i eq.tex -F json`

	HelpSanitizeUsage = `Strip HTML tags and scripts from an equation

Usage:
    mathsnap sanitize [options]

Options:
    -e, --equation <tex>    Equation source
    -i, --input <file>      Equation file (use "-" for stdin)
    -o, --output <file>     Output file (default: stdout)`

	HelpBatchUsage = `Render every equation in a YAML file

Usage:
    mathsnap batch [options]

Options:
    -i, --input <file>      YAML list of {equation, display_mode, options} (use "-" for stdin)
    -o, --output <file>     Output file (default: stdout)
    --concurrency <n>       Parallel renders (default: 4)
    --progress              Show a progress bar on stderr
    --config <file>         YAML config file
    --engine <name>         Typesetting engine: mathml, katex
    --katex <file>          Path to katex.min.js

Results are written as a JSON array in input order.`

	HelpListUsage = `List predefined or stored equations

Usage:
    mathsnap list [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)
    --store <driver>        Equation store driver: memory, filesystem, postgres
    --store-dsn <dsn>       Store connection string`

	HelpServeUsage = `Serve the renderer over HTTP

Usage:
    mathsnap serve [options]

Options:
    --addr <addr>           Listen address (default: :8080)
    --config <file>         YAML config file
    --engine <name>         Typesetting engine: mathml, katex
    --katex <file>          Path to katex.min.js
    --store <driver>        Serve /equations from a store
    --store-dsn <dsn>       Store connection string
    -v, --verbose           Log requests to stderr

Endpoints:
    POST /render, POST /validate, POST /sanitize,
    GET /equations, GET /equations/{name}, GET /equations/{name}/render`

	HelpVersionUsage = `Show version information

Usage:
    mathsnap version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    mathsnap help [command]`
)

// Version output format templates
const (
	VersionTextTemplate = "go-mathsnap version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation and listing output
const (
	ValidationTextSuccess = "Equation is valid"
	ValidationTextFailure = "Equation is invalid: %s"
	ValidationTextAt      = " (%s)"
	ListTextFormat        = "%-20s %s\n"
	ServeTextListening    = "mathsnap listening on %s\n"
	ProgressDescription   = "Rendering equations"
)

// CLI metadata
const (
	CLIName = "mathsnap"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
