package cv

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	cidPattern         = regexp.MustCompile(`\(cid:\d+\)`)
	dashPattern        = regexp.MustCompile(`â€“|â€”|–|—`)
	doubleQuotePattern = regexp.MustCompile(`[“”]`)
	singleQuotePattern = regexp.MustCompile(`[‘’]`)
	bulletRunPattern   = regexp.MustCompile(`•+`)
	pageMarkerPattern  = regexp.MustCompile(`---\s*Page\s*\d+\s*---`)
	bulletPattern      = regexp.MustCompile(`[\x{2022}\x{25CF}\x{25A0}▪]`)
	separatorPattern   = regexp.MustCompile(`[-_]{3,}`)
	blankLinePattern   = regexp.MustCompile(`\n{2,}`)
	hspacePattern      = regexp.MustCompile(`[ \t]+`)
	astralPattern      = regexp.MustCompile(`[\x{10000}-\x{10FFFF}]`)
	nonASCIIPattern    = regexp.MustCompile(`[^\x00-\x7F]+`)
	punctSpacePattern  = regexp.MustCompile(`\s+([,.!?;:])`)
	wsCollapsePattern  = regexp.MustCompile(`\s{2,}`)
)

// iconReplacer maps pictographic contact icons to textual labels before the
// catch-all non-ASCII strip removes them.
var iconReplacer = strings.NewReplacer(
	"📍", "Location:",
	"📧", "Email:",
	"📱", "Phone:",
	"🌐", "Website:",
	"💼", "LinkedIn:",
	"🐙", "GitHub:",
	"🏠", "Address:",
	"☎️", "Phone:",
	"✉️", "Email:",
)

// CleanText normalizes extracted résumé text into the canonical plain-text
// form fed to the completion prompt. Pure and idempotent:
// CleanText(CleanText(x)) == CleanText(x).
func CleanText(text string) string {
	// Unicode and typographic normalization.
	text = norm.NFKC.String(text)
	text = cidPattern.ReplaceAllString(text, "")
	text = dashPattern.ReplaceAllString(text, "-")
	text = doubleQuotePattern.ReplaceAllString(text, `"`)
	text = singleQuotePattern.ReplaceAllString(text, "'")
	text = bulletRunPattern.ReplaceAllString(text, "•")
	text = pageMarkerPattern.ReplaceAllString(text, " ")

	text = iconReplacer.Replace(text)

	// Bullets, separators, and whitespace.
	text = bulletPattern.ReplaceAllString(text, "-")
	text = separatorPattern.ReplaceAllString(text, " ")
	text = blankLinePattern.ReplaceAllString(text, "\n")
	text = hspacePattern.ReplaceAllString(text, " ")

	// Strip emoji and any remaining non-ASCII junk.
	text = astralPattern.ReplaceAllString(text, " ")
	text = nonASCIIPattern.ReplaceAllString(text, " ")

	// Punctuation spacing.
	text = punctSpacePattern.ReplaceAllString(text, "$1")
	text = wsCollapsePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
