package tokenizer

// Preset patterns for the usual token shapes. The Malformed variants accept
// the longest-match superset of their well-formed sibling; register them
// with a negative type so their tokens count as errors instead of splitting
// into fragments.
const (
	RuleWhitespace = `\s+`

	RuleWord = `[\l\u_][\w]*`

	RuleDecimal          = `-?[1-9][\d]*`
	RuleMalformedDecimal = `(-[0\l\u_])|(-?[1-9][\d]*[\l\u_])[\w]*`

	RuleHex          = `$|(0x)[\h]+`
	RuleMalformedHex = `$|(0x)([\h]*[g-zG-Z_][\w]*)?`

	RuleOctal          = `0[0-7]*`
	RuleMalformedOctal = `0[0-7]*[89ac-wyz\u_][\w]*`

	RuleBinary          = `0b[01]+`
	RuleMalformedBinary = `0b[01]*[2-9\l\u_][\w]*`

	RuleDoubleQuotedString = `"((\\.)|[^"\\])*"`
	RuleSingleQuotedString = `'((\\.)|[^"\\])*'`

	RuleCharacter          = `'(\\.)|[^'\\]'`
	RuleMalformedCharacter = `'(\\.)|[^'\\]((\\.)|[^'\\])+'`
)
