package mathsnap

import "regexp"

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagPattern     = regexp.MustCompile(`</?[^>]+(?:>|$)`)
)

// Sanitize strips <script> blocks and then every remaining HTML tag,
// including an unterminated tag at the end of the input. A script block is
// matched case-insensitively and across line breaks, so its body goes too. It removes visible
// tag syntax from raw math source only and is not a substitute for output
// encoding. Sanitize is idempotent.
//
// Note that `<` and `>` used as relations can be removed too: `a<b>c`
// becomes `ac`.
func Sanitize(source string) string {
	source = scriptBlockPattern.ReplaceAllString(source, "")
	return htmlTagPattern.ReplaceAllString(source, "")
}
