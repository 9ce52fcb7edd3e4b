package mathsnap

import "time"

// Rendering defaults
const (
	DefaultErrorColor = "#f44336"
	DefaultStrictMode = StrictModeWarn
	DefaultMaxExpand  = 1000
)

// Output formats understood by typesetters
const (
	OutputHTML          = "html"
	OutputMathML        = "mathml"
	OutputHTMLAndMathML = "htmlAndMathml"
)

// Strict modes forwarded to the engine
const (
	StrictModeIgnore = "ignore"
	StrictModeWarn   = "warn"
	StrictModeError  = "error"
)

// Typesetter names
const (
	TypesetterNameMathML = "mathml"
	TypesetterNameKaTeX  = "katex"
	TypesetterNameFunc   = "func"
)

// Fallback fragment - the HTML emitted in place of typeset output
const (
	UnknownErrorMessage   = "Unknown error rendering equation"
	ErrorFragmentPrefix   = "Error: "
	ErrorFragmentFormat   = `<span style="color: %s; border: 1px solid %s; padding: 2px 4px; border-radius: 4px; display: %s;">` + ErrorFragmentPrefix + `%s</span>`
	CSSDisplayBlock       = "block"
	CSSDisplayInlineBlock = "inline-block"
)

// MathML and KaTeX typesetter markers
const (
	mathElementOpen     = "<math"
	mathErrorElement    = "<merror"
	katexGlobalName     = "katex"
	katexRenderFunc     = "renderToString"
	katexMessageProp    = "message"
	katexPositionProp   = "position"
	katexDefaultTimeout = 10 * time.Second
)

// KaTeX option keys
const (
	katexOptDisplayMode      = "displayMode"
	katexOptThrowOnError     = "throwOnError"
	katexOptErrorColor       = "errorColor"
	katexOptOutput           = "output"
	katexOptMacros           = "macros"
	katexOptMinRuleThickness = "minRuleThickness"
	katexOptMaxSize          = "maxSize"
	katexOptMaxExpand        = "maxExpand"
	katexOptStrict           = "strict"
	katexOptTrust            = "trust"
	katexOptFleqn            = "fleqn"
	katexOptLeqno            = "leqno"
	katexOptColorIsTextColor = "colorIsTextColor"
	katexOptGlobalGroup      = "globalGroup"
)

// Binding container constants
const (
	ContainerSpan = "span"
	ContainerDiv  = "div"
	ContainerP    = "p"

	ClassEquation = "mathsnap-equation"
	ClassDisplay  = "mathsnap-display"
	ClassInline   = "mathsnap-inline"

	ElementFormat = `<%s class="%s" style="%s">%s</%s>`
)

// Binding style properties forced on every container
const (
	StylePropMaxWidth  = "max-width"
	StylePropOverflowX = "overflow-x"
	StylePropDisplay   = "display"

	StyleValueMaxWidth  = "100%"
	StyleValueOverflowX = "auto"
)

// html/template function names
const (
	FuncNameMath        = "math"
	FuncNameDisplayMath = "displayMath"
)

// Error code constants for categorization
const (
	ErrCodeSyntax     = "MATHSNAP_SYNTAX"
	ErrCodeEngine     = "MATHSNAP_ENGINE"
	ErrCodeConfig     = "MATHSNAP_CONFIG"
	ErrCodeValidation = "MATHSNAP_VALIDATION"
	ErrCodeStorage    = "MATHSNAP_STORAGE"
)

// Error metadata keys
const (
	MetaKeyKind     = "kind"
	MetaKeyDetail   = "detail"
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyEngine   = "engine"
	MetaKeyOption   = "option"
	MetaKeyValue    = "value"
	MetaKeyReason   = "reason"
	MetaKeyPath     = "path"
	MetaKeyEquation = "equation"
	MetaKeyDriver   = "driver"
)

// Log messages and fields
const (
	LogMsgRendered        = "equation rendered"
	LogMsgRenderFailed    = "equation rendering failed"
	LogMsgBatchStarted    = "batch rendering started"
	LogMsgRequestRejected = "request rate limited"
	LogMsgRequestFailed   = "request failed"

	LogFieldEngine      = "engine"
	LogFieldDisplayMode = "display_mode"
	LogFieldLength      = "length"
	LogFieldMessage     = "message"
	LogFieldCount       = "count"
	LogFieldPath        = "path"
)

// Cache defaults
const (
	DefaultCacheTTL           = 5 * time.Minute
	DefaultCacheMaxEntries    = 1000
	DefaultCacheMaxResultSize = 1 << 20 // 1MB
)

// Batch defaults
const (
	DefaultBatchConcurrency = 4
)

// HTTP handler constants
const (
	RoutePatternRender         = "POST /render"
	RoutePatternValidate       = "POST /validate"
	RoutePatternSanitize       = "POST /sanitize"
	RoutePatternEquations      = "GET /equations"
	RoutePatternEquation       = "GET /equations/{name}"
	RoutePatternEquationRender = "GET /equations/{name}/render"
	PathValueName              = "name"
	QueryParamDisplay          = "display"

	HeaderContentType   = "Content-Type"
	ContentTypeJSON     = "application/json"
	DefaultMaxBodyBytes = 1 << 20
	DefaultRateBurst    = 20
	DefaultRatePerSec   = 50.0
)

// Storage driver names
const (
	StoreDriverNameMemory     = "memory"
	StoreDriverNameFilesystem = "filesystem"
	StoreDriverNamePostgres   = "postgres"
)

// Storage ID prefix and lengths
const (
	EquationIDPrefix    = "eq_"
	EquationIDRandBytes = 8
	EquationFileExt     = ".yaml"
	EquationFilePerm    = 0o644
	EquationDirPerm     = 0o755
)

// Postgres defaults
const (
	PostgresTablePrefix            = "mathsnap_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Colour parsing
const (
	colorHexBlack  = "000000"
	colorNameBlack = "black"
)

// Markdown math delimiters and placeholders
const (
	markdownInlineDelim       = "$"
	markdownDisplayDelim      = "$$"
	markdownPlaceholderPrefix = "mathsnapspan"
	markdownPlaceholderPad    = "q"
	markdownPlaceholderEnd    = "z"
)
