// internal/textscan/rules.go

// Package textscan implements the pattern layer of the extraction engine:
// sticker-text classification, coupon-code detection, free-text URL parsing,
// the deep URL harvester and the redirect-shim unwrapper. Everything here is
// pure: regex tables are package-level named constants and all state flows
// through explicit accumulators.
package textscan

import "regexp"

// Default hosts for the upstream platform. Overridable per Scanner /
// Harvester for tests and alternate deployments.
const (
	DefaultPlatformHost = "www.instagram.com"
	DefaultShimHost     = "l.instagram.com"
	DefaultShimParam    = "u"
)

// DefaultCDNSuffixes are the asset-delivery domains whose raw media files
// are excluded from harvested URLs.
func DefaultCDNSuffixes() []string {
	return []string{"cdninstagram.com", "fbcdn.net", "fna.fbcdn.net"}
}

var (
	// absoluteURLPattern matches an absolute http(s) URL inside free text.
	// Closing parens and brackets are treated as terminators because OCR
	// text and captions commonly wrap links in them.
	absoluteURLPattern = regexp.MustCompile(`(?i)https?://[^\s)\]]+`)

	// absoluteURLPrefix tests whether an entire string value is a URL.
	absoluteURLPrefix = regexp.MustCompile(`(?i)^https?://`)

	// mediaFilePattern matches raw media file extensions, optionally
	// followed by a query string.
	mediaFilePattern = regexp.MustCompile(`(?i)\.(?:jpg|jpeg|png|webp|mp4|mov)(?:\?|$)`)

	// pricePatterns match a currency symbol adjacent to a number, in both
	// symbol-first and symbol-last order. The shekel spelling ש"ח only
	// appears after the amount.
	priceSymbolFirst = regexp.MustCompile(`(?:^|\s)(?:₪|\$|€)\s*\d+(?:[.,]\d+)?`)
	priceSymbolLast  = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:₪|ש"ח|\$|€)`)

	// percentPattern matches a 1-3 digit percentage.
	percentPattern = regexp.MustCompile(`\b\d{1,3}\s?%`)

	// couponKeywordPattern matches the bilingual coupon keyword set. Hebrew
	// is matched without \b because RE2 word boundaries are ASCII-only.
	couponKeywordPattern = regexp.MustCompile(`\b(?:coupon|promo|voucher)\b|קופון`)

	// datePattern matches YYYY[-/.]MM[-/.]DD with a 1900-2099 year range.
	datePattern = regexp.MustCompile(`\b(?:19|20)\d{2}[-/.](?:0?[1-9]|1[0-2])[-/.](?:0?[1-9]|[12]\d|3[01])\b`)

	// couponCodePattern captures a coupon keyword followed by an optional
	// separator and a 3-20 character code token.
	couponCodePattern = regexp.MustCompile(`(?i)(?:קופון|coupon|promo|voucher)\s*[:：]?\s*([A-Za-z0-9_-]{3,20})`)

	// emailPattern matches an email address inside free text.
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)

	// handlePattern matches an @handle mention of 2-30 handle characters.
	handlePattern = regexp.MustCompile(`@([A-Za-z0-9._]{2,30})`)

	// reversedHandlePattern matches the "handle@" OCR/caption artifact that
	// is rewritten to "@handle" before the handle pass runs.
	reversedHandlePattern = regexp.MustCompile(`\b([A-Za-z0-9._]{2,30})@`)

	// hashtagPattern and mentionPattern parse caption tokens. Mentions
	// additionally allow dots inside the handle.
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_.]+)`)

	// accessibilityPatterns capture the quoted span of the AI-generated
	// accessibility description, in both supported phrasings.
	accessibilityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`text that says\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`טקסט שאומר\s+['"]([^'"]+)['"]`),
	}
)
