// internal/brand/matcher.go

// Package brand matches known brand names against extracted text. Matching
// is a static keyword-dictionary lookup; logo detection is a separate
// capability and is not wired here.
package brand

import (
	"regexp"
	"sort"
	"strings"

	"github.com/storylens/storylens/pkg/types"
)

// methodText marks candidates found by keyword matching.
const methodText = "text"

// entry is one brand with its trigger keywords. The first keyword is the
// official brand name reported in candidates.
type entry struct {
	category string
	keywords []string
}

// Matcher scans text for brand keywords. Entries are held in a slice so
// scans are deterministic.
type Matcher struct {
	entries []entry
}

// NewMatcher returns a matcher loaded with the built-in brand dictionary.
func NewMatcher() *Matcher {
	return &Matcher{entries: builtinEntries()}
}

// NewMatcherWithEntries builds a matcher from custom category/keyword rows.
// Each row's first keyword is the reported brand name.
func NewMatcherWithEntries(rows map[string][][]string) *Matcher {
	m := &Matcher{}
	categories := make([]string, 0, len(rows))
	for cat := range rows {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		for _, keywords := range rows[cat] {
			if len(keywords) > 0 {
				m.entries = append(m.entries, entry{category: cat, keywords: keywords})
			}
		}
	}
	return m
}

// Match scans text and returns brand candidates ordered by descending
// confidence. Duplicate brands keep the highest-confidence occurrence.
func (m *Matcher) Match(text string) []types.BrandCandidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	textLower := strings.ToLower(text)

	var found []types.BrandCandidate
	for _, e := range m.entries {
		name := e.keywords[0]
		for _, keyword := range e.keywords {
			if !strings.Contains(textLower, strings.ToLower(keyword)) {
				continue
			}
			found = append(found, types.BrandCandidate{
				Value:      name,
				Confidence: textConfidence(keyword, text, textLower),
				Method:     methodText,
			})
			break
		}
	}

	found = dedupe(found)
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Confidence > found[j].Confidence
	})
	return found
}

// textConfidence scores one keyword hit: 0.75 base, boosted for exact-case
// matches, word-boundary matches and @mention usage, capped at 0.95.
func textConfidence(keyword, text, textLower string) float64 {
	keywordLower := strings.ToLower(keyword)
	confidence := 0.75

	if strings.Contains(text, keyword) {
		confidence += 0.10
	}
	if wordBoundaryMatch(keywordLower, textLower) {
		confidence += 0.10
	}
	if strings.Contains(textLower, "@"+keywordLower) {
		confidence += 0.05
	}

	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}

func wordBoundaryMatch(keywordLower, textLower string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(keywordLower) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(textLower)
}

// dedupe keeps one candidate per brand value, preferring the highest
// confidence and preserving first-seen order otherwise.
func dedupe(candidates []types.BrandCandidate) []types.BrandCandidate {
	index := make(map[string]int, len(candidates))
	out := make([]types.BrandCandidate, 0, len(candidates))
	for _, c := range candidates {
		if i, seen := index[c.Value]; seen {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		index[c.Value] = len(out)
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// builtinEntries returns the static brand dictionary grouped by vertical.
func builtinEntries() []entry {
	rows := []struct {
		category string
		brands   [][]string
	}{
		{"fashion", [][]string{
			{"Nike", "swoosh", "just do it"},
			{"Adidas", "three stripes", "impossible is nothing"},
			{"Zara", "zara home"},
			{"H&M", "hennes mauritz", "hennes & mauritz"},
			{"Uniqlo", "lifewear"},
			{"SHEIN", "she in", "sheinside"},
			{"Forever 21", "forever 21", "f21"},
			{"Mango", "mng"},
			{"Pull & Bear", "pull and bear", "pullandbear"},
			{"Bershka", "bsk"},
			{"Stradivarius", "strd"},
			{"Massimo Dutti", "md"},
			{"COS", "collection of style"},
			{"Weekday", "wknd"},
			{"Monki"},
			{"& Other Stories", "other stories"},
		}},
		{"beauty", [][]string{
			{"Sephora", "sepho"},
			{"Ulta", "ulta beauty"},
			{"L'Oreal", "loreal paris"},
			{"Maybelline", "maybe she's born with it"},
			{"Revlon"},
			{"Clinique"},
			{"Estée Lauder", "estee lauder"},
			{"MAC", "make-up art cosmetics"},
			{"NARS"},
			{"Urban Decay"},
		}},
		{"tech", [][]string{
			{"Apple", "iphone", "ipad", "macbook", "airpods"},
			{"Samsung", "galaxy"},
			{"Google", "pixel"},
			{"Microsoft", "xbox", "surface"},
			{"Amazon", "alexa", "echo"},
			{"Tesla"},
			{"Sony", "playstation"},
			{"Nintendo", "switch"},
		}},
		{"food", [][]string{
			{"McDonald's", "mcdonalds", "big mac", "happy meal"},
			{"KFC", "kentucky fried chicken"},
			{"Starbucks", "frappuccino"},
			{"Coca-Cola", "coca cola", "coke"},
			{"Pepsi", "pepsi cola"},
			{"Nestlé", "nestle"},
			{"Unilever"},
		}},
		{"automotive", [][]string{
			{"BMW", "ultimate driving machine"},
			{"Mercedes-Benz", "mercedes", "the best or nothing"},
			{"Audi", "vorsprung durch technik"},
			{"Volkswagen", "vw"},
			{"Toyota", "let's go places"},
			{"Honda"},
			{"Ford", "built tough"},
		}},
	}

	var entries []entry
	for _, row := range rows {
		for _, keywords := range row.brands {
			entries = append(entries, entry{category: row.category, keywords: keywords})
		}
	}
	return entries
}
