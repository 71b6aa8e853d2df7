// internal/textscan/classify_test.go
package textscan

import (
	"reflect"
	"testing"

	"github.com/storylens/storylens/pkg/types"
)

func TestClassifySticker(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		url      string
		expected types.StickerType
	}{
		{
			name:     "url wins over price text",
			text:     "only ₪50 today",
			url:      "https://shop.example.com/deal",
			expected: types.StickerURL,
		},
		{
			name:     "empty text without url is generic",
			text:     "",
			expected: types.StickerGeneric,
		},
		{
			name:     "shekel symbol before amount",
			text:     "מבצע ₪199",
			expected: types.StickerPrice,
		},
		{
			name:     "dollar amount with decimals",
			text:     "now $19.99",
			expected: types.StickerPrice,
		},
		{
			name:     "amount before currency word",
			text:     `רק 120 ש"ח`,
			expected: types.StickerPrice,
		},
		{
			name:     "percent discount",
			text:     "50% OFF",
			expected: types.StickerPercent,
		},
		{
			name:     "percent with space",
			text:     "20 % הנחה",
			expected: types.StickerPercent,
		},
		{
			name:     "price beats percent when both match",
			text:     "was $100, now 50% off",
			expected: types.StickerPrice,
		},
		{
			name:     "english coupon keyword",
			text:     "use my coupon now",
			expected: types.StickerCoupon,
		},
		{
			name:     "hebrew coupon keyword",
			text:     "קופון בלעדי",
			expected: types.StickerCoupon,
		},
		{
			name:     "date in iso form",
			text:     "valid until 2025-12-31",
			expected: types.StickerDate,
		},
		{
			name:     "date with slashes and single digits",
			text:     "ends 2024/1/5",
			expected: types.StickerDate,
		},
		{
			name:     "plain text is generic",
			text:     "swipe up for more",
			expected: types.StickerGeneric,
		},
		{
			name:     "out of range month is not a date",
			text:     "code 2024-13-01",
			expected: types.StickerGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySticker(tt.text, tt.url)
			if got != tt.expected {
				t.Errorf("ClassifySticker(%q, %q) = %q, want %q", tt.text, tt.url, got, tt.expected)
			}
		})
	}
}

func TestCouponCodesFromText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "keyword with colon",
			text:     "coupon: SAVE20 at checkout",
			expected: []string{"SAVE20"},
		},
		{
			name:     "hebrew keyword with fullwidth colon",
			text:     "קופון： shani10",
			expected: []string{"SHANI10"},
		},
		{
			name:     "keyword without separator",
			text:     "promo WELCOME5",
			expected: []string{"WELCOME5"},
		},
		{
			name:     "multiple codes deduplicated",
			text:     "coupon SAVE20 and promo save20 and voucher EXTRA5",
			expected: []string{"SAVE20", "EXTRA5"},
		},
		{
			name:     "token shorter than three chars ignored",
			text:     "coupon: ab",
			expected: nil,
		},
		{
			name:     "no keyword no codes",
			text:     "use SAVE20 today",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CouponCodesFromText(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("CouponCodesFromText(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestGuessLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "single hebrew rune wins",
			text:     "big sale ש",
			expected: "he",
		},
		{
			name:     "hebrew sentence",
			text:     "מבצע מטורף היום",
			expected: "he",
		},
		{
			name:     "english sentence",
			text:     "check this out",
			expected: "en",
		},
		{
			name:     "mostly digits is unknown",
			text:     "123456789 ok",
			expected: "",
		},
		{
			name:     "short latin still passes absolute floor",
			text:     "hey",
			expected: "en",
		},
		{
			name:     "two letters below floor",
			text:     "ok",
			expected: "",
		},
		{
			name:     "blank is unknown",
			text:     "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GuessLanguage(tt.text)
			if got != tt.expected {
				t.Errorf("GuessLanguage(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestHashtagsFromCaption(t *testing.T) {
	got := HashtagsFromCaption("try #Sale and #sale and #מבצע today")
	expected := []string{"Sale", "מבצע"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("HashtagsFromCaption = %v, want %v", got, expected)
	}

	if got := HashtagsFromCaption(""); got != nil {
		t.Errorf("expected nil for empty caption, got %v", got)
	}
}

func TestMentionsFromCaption(t *testing.T) {
	got := MentionsFromCaption("with @alice.b and @Bob_1 and @alice.b")
	expected := []string{"alice.b", "Bob_1"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("MentionsFromCaption = %v, want %v", got, expected)
	}
}

func TestAccessibilityText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "english double quotes",
			input:    `Photo with text that says "SALE 50% OFF" on it`,
			expected: "SALE 50% OFF",
		},
		{
			name:     "english single quotes",
			input:    "Photo with text that says 'buy now'",
			expected: "buy now",
		},
		{
			name:     "hebrew pattern",
			input:    `תמונה עם טקסט שאומר "קופון SAVE10"`,
			expected: "קופון SAVE10",
		},
		{
			name:     "no quoted span",
			input:    "Photo of a beach at sunset",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccessibilityText(tt.input)
			if got != tt.expected {
				t.Errorf("AccessibilityText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{"Sale", "sale", "  ", "", "SALE", "new"})
	expected := []string{"Sale", "new"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("UniqueStrings = %v, want %v", got, expected)
	}
}
