// internal/extract/stickers_test.go
package extract

import (
	"reflect"
	"testing"

	"github.com/storylens/storylens/internal/textscan"
	"github.com/storylens/storylens/pkg/types"
)

func collectURLs(t *testing.T, payload string) []types.URLCandidate {
	t.Helper()
	e := NewEngine(EngineOptions{})
	out := textscan.NewURLSet()
	e.collectStructuredURLs(itemFromJSON(t, payload), out)
	return out.Values()
}

func collectStickers(t *testing.T, payload string) []types.Sticker {
	t.Helper()
	e := NewEngine(EngineOptions{})
	return e.collectStructuredStickers(itemFromJSON(t, payload), newTextPool())
}

func TestCollectStructuredURLs(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []string
	}{
		{
			name: "cta links with fallback order",
			payload: `{"story_cta": [{"links": [
				{"webUri": "https://a.example.com"},
				{"url": "https://b.example.com"},
				{"story_link": {"link_context": {"url": "https://c.example.com"}}}
			]}]}`,
			expected: []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"},
		},
		{
			name: "link sticker unwraps shim",
			payload: `{"story_link_stickers": [
				{"story_link": {"url": "https://l.instagram.com/?u=https%3A%2F%2Fshop.example.com%2Fx"}}
			]}`,
			expected: []string{"https://shop.example.com/x"},
		},
		{
			name: "tappable link and product",
			payload: `{"tappable_objects": [
				{"object_type": "link", "link": {"url": "https://link.example.com"}},
				{"object_type": "product", "product": {"external_url": "https://prod.example.com"}},
				{"object_type": "mention", "user": {"username": "someone"}}
			]}`,
			expected: []string{"https://link.example.com", "https://prod.example.com"},
		},
		{
			name: "bloks sticker embedded json",
			payload: `{"story_bloks_stickers": [
				{"bloks_sticker": {"bloks_data": "{\"action\": {\"target\": \"https://bloks.example.com/offer\"}}"}}
			]}`,
			expected: []string{"https://bloks.example.com/offer"},
		},
		{
			name:     "app attribution",
			payload:  `{"story_app_attribution": [{"app_action_url": "https://app.example.com"}]}`,
			expected: []string{"https://app.example.com"},
		},
		{
			name:     "swipe up link as plain string",
			payload:  `{"swipe_up_link": "https://swipe.example.com"}`,
			expected: []string{"https://swipe.example.com"},
		},
		{
			name:     "action link as object",
			payload:  `{"action_link": {"link_url": "https://action.example.com"}}`,
			expected: []string{"https://action.example.com"},
		},
		{
			name: "deep harvest of product items",
			payload: `{"story_product_items": [
				{"product": {"nested": {"checkout_url": "https://deep.example.com/buy"}}}
			]}`,
			expected: []string{"https://deep.example.com/buy"},
		},
		{
			name:     "empty item",
			payload:  `{}`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectURLs(t, tt.payload)
			texts := make([]string, 0, len(got))
			for _, u := range got {
				texts = append(texts, u.Text)
			}
			if !reflect.DeepEqual(texts, tt.expected) {
				t.Errorf("urls = %v, want %v", texts, tt.expected)
			}
		})
	}
}

func TestCollectStructuredStickersOverlays(t *testing.T) {
	got := collectStickers(t, `{
		"story_polls": [
			{"poll_sticker": {"question": "Which color?", "tallies": [{"text": "Red"}, {"text": "Blue"}], "x": 0.5}}
		],
		"story_sliders": [
			{"slider_sticker": {"question": "Rate it", "emoji": "🔥"}}
		],
		"story_questions": [
			{"question_sticker": {"question_text": "Ask me anything"}}
		]
	}`)

	want := []types.Sticker{
		{Type: types.StickerGeneric, Text: "Which color? Red Blue", BBox: types.BBox{0.5, 0, 0, 0}},
		{Type: types.StickerGeneric, Text: "Rate it 🔥"},
		{Type: types.StickerGeneric, Text: "Ask me anything"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stickers = %+v, want %+v", got, want)
	}
}

func TestCollectStructuredStickersQuizSpellings(t *testing.T) {
	for _, key := range []string{"story_quizs", "story_quiz"} {
		t.Run(key, func(t *testing.T) {
			got := collectStickers(t, `{"`+key+`": [
				{"quiz_sticker": {"question": "Capital of France?", "tallies": [{"text": "Paris"}, {"text": "Lyon"}]}}
			]}`)
			if len(got) != 1 || got[0].Text != "Capital of France? Paris Lyon" {
				t.Errorf("quiz sticker = %+v", got)
			}
		})
	}
}

func TestCollectStructuredStickersTextOverlays(t *testing.T) {
	got := collectStickers(t, `{
		"story_static_models": [
			{"display_text": "use promo GLOW20", "x": 0.1, "y": 0.2, "width": 0.3, "height": 0.4}
		],
		"story_overlay_stickers": [
			{"sticker_text": "big sale today"}
		]
	}`)

	if len(got) != 3 {
		t.Fatalf("stickers = %+v, want overlay + mined coupon + overlay", got)
	}
	if got[0].Type != types.StickerGeneric || got[0].Text != "use promo GLOW20" || got[0].Confidence != 1.0 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Type != types.StickerCoupon || got[1].Text != "GLOW20" || got[1].Confidence != 1.0 {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[1].BBox != got[0].BBox {
		t.Error("mined coupon should inherit the overlay box")
	}
	if got[2].Type != types.StickerGeneric || got[2].Text != "big sale today" {
		t.Errorf("got[2] = %+v", got[2])
	}
}

func TestCollectStructuredStickersLinkText(t *testing.T) {
	got := collectStickers(t, `{
		"story_link_stickers": [
			{"story_link": {"url": "https://shop.example.com/x"}, "title": "50% OFF"}
		]
	}`)

	// Overlay text takes precedence for display; the URL drives the type.
	want := []types.Sticker{
		{Type: types.StickerURL, Text: "50% OFF"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stickers = %+v, want %+v", got, want)
	}
}

func TestCollectHashtagsAndMentions(t *testing.T) {
	it := itemFromJSON(t, `{
		"story_hashtags": [{"hashtag": {"name": "summer"}}, {"hashtag": {"name": "Sale"}}],
		"reel_mentions": [{"user": {"username": "alice"}}],
		"tappable_objects": [
			{"object_type": "mention", "username": "bob"},
			{"object_type": "link", "link": {"url": "https://x.example.com"}}
		]
	}`)
	caption := "hot #sale with @alice and @carol"

	tags := collectHashtags(it, caption)
	if !reflect.DeepEqual(tags, []string{"summer", "Sale"}) {
		t.Errorf("hashtags = %v", tags)
	}

	mentions := collectMentions(it, caption)
	if !reflect.DeepEqual(mentions, []string{"alice", "bob", "carol"}) {
		t.Errorf("mentions = %v", mentions)
	}
}

func TestBBoxOf(t *testing.T) {
	it := itemFromJSON(t, `{"x": 0.25, "width": 0.5}`)
	if got := bboxOf(it); got != (types.BBox{0.25, 0, 0.5, 0}) {
		t.Errorf("bboxOf = %v", got)
	}
	if got := bboxOf(nil); got != (types.BBox{}) {
		t.Errorf("bboxOf(nil) = %v", got)
	}
}
