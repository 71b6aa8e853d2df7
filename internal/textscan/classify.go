// internal/textscan/classify.go
package textscan

import (
	"regexp"
	"strings"

	"github.com/storylens/storylens/pkg/types"
)

// ClassifySticker assigns a sticker type to a text/URL pair. A non-empty URL
// always wins regardless of text. Otherwise the rules apply in fixed
// priority: price, then percent, then coupon, then date, and anything
// unmatched is generic. The rules are mutually exclusive by this order, not
// by pattern exhaustiveness.
func ClassifySticker(text, url string) types.StickerType {
	if url != "" {
		return types.StickerURL
	}
	t := strings.ToLower(text)
	if t == "" {
		return types.StickerGeneric
	}
	switch {
	case priceSymbolFirst.MatchString(t) || priceSymbolLast.MatchString(t):
		return types.StickerPrice
	case percentPattern.MatchString(t):
		return types.StickerPercent
	case couponKeywordPattern.MatchString(t):
		return types.StickerCoupon
	case datePattern.MatchString(t):
		return types.StickerDate
	default:
		return types.StickerGeneric
	}
}

// CouponCodesFromText extracts uppercased coupon code tokens from free text.
// A text may carry several codes; the result is deduplicated preserving
// first-seen order.
func CouponCodesFromText(text string) []string {
	matches := couponCodePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var codes []string
	for _, m := range matches {
		code := strings.ToUpper(m[1])
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// GuessLanguage returns a best-effort language tag for text: "he" when any
// rune falls in the Hebrew block, "en" when Latin letters dominate, and ""
// when no guess can be made. This is a heuristic, not a language model.
func GuessLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	runes := []rune(text)
	latin := 0
	for _, r := range runes {
		if r >= 0x0590 && r <= 0x05FF {
			return "he"
		}
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			latin++
		}
	}
	threshold := len(runes) / 5
	if threshold < 3 {
		threshold = 3
	}
	if latin >= threshold {
		return "en"
	}
	return ""
}

// HashtagsFromCaption parses #tag tokens out of caption text, deduplicated
// case-insensitively with first casing preserved.
func HashtagsFromCaption(caption string) []string {
	return captionTokens(hashtagPattern, caption)
}

// MentionsFromCaption parses @handle tokens out of caption text.
func MentionsFromCaption(caption string) []string {
	return captionTokens(mentionPattern, caption)
}

func captionTokens(re *regexp.Regexp, caption string) []string {
	if caption == "" {
		return nil
	}
	matches := re.FindAllStringSubmatch(caption, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return UniqueStrings(tokens)
}

// AccessibilityText extracts the quoted span from an AI-generated
// accessibility description ("text that says '...'" or its Hebrew
// equivalent). Returns "" when no span is present.
func AccessibilityText(description string) string {
	for _, re := range accessibilityPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// UniqueStrings deduplicates values case-insensitively, preserving the
// original casing of the first occurrence and insertion order. Blank values
// are dropped.
func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
