package internal

// Token names produced by the structure lexer
const (
	TokenNameBegin      = "Begin"
	TokenNameEnd        = "End"
	TokenNameLeft       = "Left"
	TokenNameRight      = "Right"
	TokenNameCommand    = "Command"
	TokenNameEscaped    = "Escaped"
	TokenNameLBrace     = "LBrace"
	TokenNameRBrace     = "RBrace"
	TokenNameScript     = "Script"
	TokenNameAlign      = "Align"
	TokenNameWhitespace = "Whitespace"
	TokenNameText       = "Text"
)

// Structure check error messages
const (
	ErrMsgStructureInvalid        = "invalid math structure"
	ErrMsgMismatchedEnvironment   = "mismatched environment"
	ErrMsgDanglingBackslash       = "dangling backslash at end of input"
	ErrMsgAlignOutsideEnvironment = "alignment tab & outside an environment"
	ErrMsgInvalidMacroName        = "invalid macro name"
)

// Characters with structural meaning
const (
	charBackslash = '\\'
	charNewline   = '\n'
)
