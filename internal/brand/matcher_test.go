// internal/brand/matcher_test.go
package brand

import (
	"testing"
)

func TestMatchConfidence(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name       string
		text       string
		brand      string
		confidence float64
	}{
		{
			name:       "exact case word boundary",
			text:       "loving my new Nike shoes",
			brand:      "Nike",
			confidence: 0.95,
		},
		{
			name:       "lowercase word boundary",
			text:       "new nike drop today",
			brand:      "Nike",
			confidence: 0.85,
		},
		{
			name:       "substring only",
			text:       "my NIKEID order arrived",
			brand:      "Nike",
			confidence: 0.75,
		},
		{
			name:       "mention boost capped",
			text:       "check out @nike and Nike store",
			brand:      "Nike",
			confidence: 0.95,
		},
		{
			name:       "alias reports official name",
			text:       "new iphone case in stock",
			brand:      "Apple",
			confidence: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.text)
			if len(got) == 0 {
				t.Fatalf("no candidates for %q", tt.text)
			}
			top := got[0]
			if top.Value != tt.brand {
				t.Errorf("Value = %q, want %q", top.Value, tt.brand)
			}
			if top.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", top.Confidence, tt.confidence)
			}
			if top.Method != "text" {
				t.Errorf("Method = %q", top.Method)
			}
		})
	}
}

func TestMatchOrdering(t *testing.T) {
	m := NewMatcher()

	got := m.Match("got my Nike order and some samsung accessories")
	if len(got) != 2 {
		t.Fatalf("candidates = %v, want 2", got)
	}
	// Exact-case Nike (0.95) sorts ahead of lowercase samsung (0.85).
	if got[0].Value != "Nike" || got[1].Value != "Samsung" {
		t.Errorf("order = %v", got)
	}
	if got[0].Confidence <= got[1].Confidence {
		t.Errorf("candidates not sorted by confidence: %v", got)
	}
}

func TestMatchNoHits(t *testing.T) {
	m := NewMatcher()
	if got := m.Match("nothing branded here"); got != nil {
		t.Errorf("Match = %v, want nil", got)
	}
	if got := m.Match("   "); got != nil {
		t.Errorf("Match on blank = %v, want nil", got)
	}
}

func TestMatchDedupesPerBrand(t *testing.T) {
	m := NewMatcher()

	// Both the name and an alias hit; only one candidate survives.
	got := m.Match("Apple released a new iphone")
	count := 0
	for _, c := range got {
		if c.Value == "Apple" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d Apple candidates, want 1: %v", count, got)
	}
}

func TestNewMatcherWithEntries(t *testing.T) {
	m := NewMatcherWithEntries(map[string][][]string{
		"local": {
			{"Shani Shop", "shanishop"},
		},
		"empty": {
			{},
		},
	})

	got := m.Match("order now at shanishop deals")
	if len(got) != 1 {
		t.Fatalf("candidates = %v, want 1", got)
	}
	if got[0].Value != "Shani Shop" {
		t.Errorf("Value = %q, want the official name", got[0].Value)
	}
}
