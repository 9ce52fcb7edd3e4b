package mathsnap

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-mathsnap/internal"
)

// Error message constants
const (
	// Syntax errors
	ErrMsgMathSyntax        = "math syntax error"
	ErrMsgEngineMarkedError = "engine reported an error in the equation"
	ErrMsgEngineNoMath      = "engine produced no math output"

	// Engine errors
	ErrMsgEngineFailed      = "typesetting engine failed"
	ErrMsgEnginePanic       = "typesetting engine panicked"
	ErrMsgKaTeXScriptFailed = "failed to evaluate KaTeX script"
	ErrMsgKaTeXMissing      = "KaTeX script does not define katex.renderToString"
	ErrMsgKaTeXReadFailed   = "failed to read KaTeX script"
	ErrMsgKaTeXTimeout      = "KaTeX rendering timed out"

	// Option and configuration errors
	ErrMsgInvalidOption     = "invalid engine option"
	ErrMsgInvalidColor      = "not a CSS colour"
	ErrMsgInvalidStrictMode = "unknown strict mode"
	ErrMsgConfigReadFailed  = "failed to read config file"
	ErrMsgConfigParseFailed = "failed to parse config file"
	ErrMsgUnknownEngine     = "unknown typesetting engine"

	ErrMsgKaTeXScriptRequired = "katex engine requires katex_script"

	// Storage errors
	ErrMsgEquationNotFound        = "equation not found"
	ErrMsgInvalidEquationName     = "invalid equation name"
	ErrMsgStoreClosed             = "equation store is closed"
	ErrMsgStoreDriverNotFound     = "equation store driver not found"
	ErrMsgNilStoreDriver          = "equation store driver is nil"
	ErrMsgDriverAlreadyRegistered = "equation store driver already registered"
	ErrMsgStoreReadFailed         = "failed to read equation"
	ErrMsgStoreWriteFailed        = "failed to write equation"
	ErrMsgStoreDeleteFailed       = "failed to delete equation"
	ErrMsgInvalidStoreRoot        = "equation store root directory is empty"
	ErrMsgCreateStoreDir          = "failed to create equation store directory"
	ErrMsgPostgresEmptyConnString = "PostgreSQL connection string is empty"
	ErrMsgPostgresConnectFailed   = "failed to connect to PostgreSQL"
	ErrMsgPostgresQueryFailed     = "PostgreSQL query failed"
	ErrMsgPostgresMigrationFailed = "PostgreSQL migration failed"

	// Markdown errors
	ErrMsgMarkdownFailed = "markdown conversion failed"
)

// Error kinds recorded under MetaKeyKind
const (
	errorKindSyntax   = "syntax"
	errorKindEngine   = "engine"
	errorKindNotFound = "not_found"
	errorKindBadName  = "bad_name"
)

// Position represents a location in the math source
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// NewMathSyntaxError creates the error reported when an equation cannot be
// typeset. detail is the engine's human-readable message.
func NewMathSyntaxError(detail string, pos Position, engine string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeSyntax, ErrMsgMathSyntax)
	} else {
		err = cuserr.NewValidationError(ErrCodeSyntax, ErrMsgMathSyntax)
	}
	err = err.
		WithMetadata(MetaKeyKind, errorKindSyntax).
		WithMetadata(MetaKeyDetail, detail).
		WithMetadata(MetaKeyEngine, engine)
	if pos.Line > 0 {
		err = err.
			WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
	}
	if pos.Line > 0 || pos.Offset > 0 {
		err = err.WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
	}
	return err
}

// NewEngineError creates an error for engine failures unrelated to the
// equation itself (script loading, timeouts, panics).
func NewEngineError(msg string, engine string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeEngine, msg).
			WithMetadata(MetaKeyDetail, msg+": "+cause.Error())
	} else {
		err = cuserr.NewInternalError(ErrCodeEngine, nil).
			WithMetadata(MetaKeyDetail, msg)
	}
	return err.
		WithMetadata(MetaKeyKind, errorKindEngine).
		WithMetadata(MetaKeyEngine, engine)
}

// NewInvalidOptionError creates an error for an engine option that cannot be used.
func NewInvalidOptionError(option, value, reason string) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgInvalidOption).
		WithMetadata(MetaKeyOption, option).
		WithMetadata(MetaKeyValue, value).
		WithMetadata(MetaKeyReason, reason)
}

// NewConfigError creates an error for config loading failures.
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewUnknownEngineError creates an error for an unsupported engine name.
func NewUnknownEngineError(name string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnknownEngine).
		WithMetadata(MetaKeyEngine, name)
}

// NewEquationNotFoundError creates an error for a missing stored equation.
func NewEquationNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyEquation, ErrMsgEquationNotFound).
		WithMetadata(MetaKeyKind, errorKindNotFound).
		WithMetadata(MetaKeyEquation, name)
}

// NewInvalidEquationNameError creates an error for a name that cannot be
// stored.
func NewInvalidEquationNameError(name string) error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgInvalidEquationName).
		WithMetadata(MetaKeyKind, errorKindBadName).
		WithMetadata(MetaKeyEquation, name)
}

// IsInvalidEquationName reports whether err rejects an equation name.
func IsInvalidEquationName(err error) bool {
	return kindOf(err) == errorKindBadName
}

// IsMathSyntaxError reports whether err is a math syntax error.
func IsMathSyntaxError(err error) bool {
	return kindOf(err) == errorKindSyntax
}

// IsEngineError reports whether err is an engine failure.
func IsEngineError(err error) bool {
	return kindOf(err) == errorKindEngine
}

// IsNotFound reports whether err reports a missing equation.
func IsNotFound(err error) bool {
	return kindOf(err) == errorKindNotFound
}

// MessageOf extracts the human-readable message carried by a rendering
// failure. It falls back to UnknownErrorMessage when err has no message.
func MessageOf(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}

	var custom *cuserr.CustomError
	if errors.As(err, &custom) {
		if detail, ok := custom.GetMetadata(MetaKeyDetail); ok && detail != "" {
			return detail
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}

// PositionOf returns the source position attached to a syntax error, if any.
func PositionOf(err error) (Position, bool) {
	var custom *cuserr.CustomError
	if !errors.As(err, &custom) {
		return Position{}, false
	}

	line, okLine := custom.GetMetadata(MetaKeyLine)
	column, okColumn := custom.GetMetadata(MetaKeyColumn)
	offset, okOffset := custom.GetMetadata(MetaKeyOffset)
	if !okLine && !okOffset {
		return Position{}, false
	}

	pos := Position{}
	if okLine {
		pos.Line, _ = strconv.Atoi(line)
	}
	if okColumn {
		pos.Column, _ = strconv.Atoi(column)
	}
	if okOffset {
		pos.Offset, _ = strconv.Atoi(offset)
	}
	return pos, true
}

// syntaxErrorFromStructure converts an internal structure error into a math
// syntax error, keeping the position.
func syntaxErrorFromStructure(err error, engine string) error {
	var serr *internal.StructureError
	if errors.As(err, &serr) {
		pos := Position{
			Offset: serr.Position.Offset,
			Line:   serr.Position.Line,
			Column: serr.Position.Column,
		}
		return NewMathSyntaxError(serr.Error(), pos, engine, err)
	}
	return NewMathSyntaxError(err.Error(), Position{}, engine, err)
}

func kindOf(err error) string {
	var custom *cuserr.CustomError
	if !errors.As(err, &custom) {
		return ""
	}
	kind, _ := custom.GetMetadata(MetaKeyKind)
	return kind
}
