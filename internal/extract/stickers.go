// internal/extract/stickers.go
package extract

import (
	"strings"

	"github.com/storylens/storylens/internal/rawitem"
	"github.com/storylens/storylens/internal/textscan"
	"github.com/storylens/storylens/pkg/types"
)

// deepHarvestFields are sticker containers whose URL shapes are too varied
// for accessor tables; they get a recursive URL harvest instead.
var deepHarvestFields = []string{
	"story_product_items",
	"story_feed_media",
	"story_music_stickers",
	"story_shopping_stickers",
	"story_cta_stickers",
}

// linkAccessors per structured field group, in upstream fallback order.
var (
	ctaLinkURL = []rawitem.Accessor{
		rawitem.Key("webUri"),
		rawitem.Key("url"),
		rawitem.Key("link_url"),
		rawitem.Key("story_link", "link_context", "url"),
	}
	linkStickerURL = []rawitem.Accessor{
		rawitem.Key("story_link", "url"),
		rawitem.Key("url"),
		rawitem.Key("link_url"),
		rawitem.Key("story_link", "link_context", "url"),
	}
	tappableShopURL = []rawitem.Accessor{
		rawitem.Key("product", "external_url"),
		rawitem.Key("shopping", "url"),
		rawitem.Key("storefront", "url"),
		rawitem.Key("external_link", "url"),
		rawitem.Key("web_link", "url"),
		rawitem.Key("url"),
	}
	appAttributionURL = []rawitem.Accessor{
		rawitem.Key("url"),
		rawitem.Key("link"),
		rawitem.Key("app_action_url"),
	}
	shoppingStickerURL = []rawitem.Accessor{
		rawitem.Key("shopping_sticker", "url"),
		rawitem.Key("url"),
		rawitem.Key("external_url"),
	}
	ctaStickerURL = []rawitem.Accessor{
		rawitem.Key("cta_sticker", "url"),
		rawitem.Key("url"),
		rawitem.Key("action_url"),
	}
	flatLinkURL = []rawitem.Accessor{
		rawitem.Key("url"),
		rawitem.Key("link_url"),
	}
	stickerTextAccessors = []rawitem.Accessor{
		rawitem.Key("title"),
		rawitem.Key("text"),
		rawitem.Key("name"),
		rawitem.Key("question"),
	}
	overlayTextAccessors = []rawitem.Accessor{
		rawitem.Key("text"),
		rawitem.Key("display_text"),
		rawitem.Key("sticker_text"),
	}
)

// stickerTextOf picks the human-visible text of a link-ish element.
func stickerTextOf(it rawitem.Item) string {
	s, _ := rawitem.FirstString(it, stickerTextAccessors...)
	return s
}

// bboxOf reads a normalized x/y/width/height box, defaulting missing
// components to zero.
func bboxOf(it rawitem.Item) types.BBox {
	var box types.BBox
	if it == nil {
		return box
	}
	if x, ok := it.Float("x"); ok {
		box[0] = x
	}
	if y, ok := it.Float("y"); ok {
		box[1] = y
	}
	if w, ok := it.Float("width"); ok {
		box[2] = w
	}
	if h, ok := it.Float("height"); ok {
		box[3] = h
	}
	return box
}

// eachItem iterates a field that holds a list of mappings.
func eachItem(it rawitem.Item, key string, fn func(rawitem.Item)) {
	list, ok := it.List(key)
	if !ok {
		return
	}
	for _, v := range list {
		if child, ok := rawitem.AsItem(v); ok {
			fn(child)
		}
	}
}

// collectStructuredURLs walks every structured field group that can carry a
// link, unwraps each URL and inserts it into out. The groups and their
// fallback orders mirror the upstream payload shapes.
func (e *Engine) collectStructuredURLs(it rawitem.Item, out *textscan.URLSet) {
	add := func(raw string) {
		if raw == "" {
			return
		}
		un := e.scanner.Unwrap(raw)
		out.Add(types.URLCandidate{
			Text:           strings.TrimSpace(un),
			ResolvedDomain: textscan.ResolveDomain(un),
		})
	}
	first := func(item rawitem.Item, accessors []rawitem.Accessor) string {
		s, _ := rawitem.FirstString(item, accessors...)
		return s
	}

	// story_cta: each CTA carries a list of links.
	eachItem(it, "story_cta", func(cta rawitem.Item) {
		eachItem(cta, "links", func(lnk rawitem.Item) {
			add(first(lnk, ctaLinkURL))
		})
	})

	eachItem(it, "story_link_stickers", func(ls rawitem.Item) {
		add(first(ls, linkStickerURL))
	})

	// tappable_objects: explicit link objects plus shopping-flavored types.
	eachItem(it, "tappable_objects", func(to rawitem.Item) {
		objType, _ := to.Str("object_type")
		switch objType {
		case "link":
			u, ok := to.LookupStr("link", "url")
			if !ok {
				u, _ = to.Str("url")
			}
			add(u)
		case "product", "shopping", "storefront", "external_link", "web_link":
			add(first(to, tappableShopURL))
		}
	})

	// story_bloks_stickers: the URL hides in an embedded JSON blob.
	eachItem(it, "story_bloks_stickers", func(bl rawitem.Item) {
		data, ok := bl.Lookup("bloks_sticker", "bloks_data")
		if !ok {
			data = bl["bloks_data"]
		}
		if s, isStr := data.(string); isStr {
			if decoded, err := rawitem.Decode([]byte(s)); err == nil {
				data = map[string]interface{}(decoded)
			}
		}
		if data != nil {
			e.harvester.Harvest(data, out)
		}
		add(first(bl, flatLinkURL))
	})

	eachItem(it, "story_app_attribution", func(app rawitem.Item) {
		add(first(app, appAttributionURL))
	})

	eachItem(it, "story_shopping_stickers", func(shop rawitem.Item) {
		add(first(shop, shoppingStickerURL))
	})

	eachItem(it, "story_cta_stickers", func(cta rawitem.Item) {
		add(first(cta, ctaStickerURL))
	})

	// swipe_up_link / action_link appear both as plain strings and as
	// objects.
	for _, key := range []string{"swipe_up_link", "action_link"} {
		switch v := it[key].(type) {
		case string:
			add(v)
		case map[string]interface{}:
			add(first(rawitem.Item(v), flatLinkURL))
		}
	}

	// Remaining containers get a recursive harvest.
	for _, key := range deepHarvestFields {
		if v, ok := it[key]; ok {
			e.harvester.Harvest(v, out)
		}
	}
}

// collectStructuredStickers builds the typed sticker list from every
// overlay field group. Non-URL duplicates are kept: two identical poll
// answers on different stickers are distinct overlay elements.
func (e *Engine) collectStructuredStickers(it rawitem.Item, textPool *textPool) []types.Sticker {
	var stickers []types.Sticker
	add := func(s types.Sticker) { stickers = append(stickers, s) }
	first := func(item rawitem.Item, accessors []rawitem.Accessor) string {
		s, _ := rawitem.FirstString(item, accessors...)
		return s
	}

	eachItem(it, "story_cta", func(cta rawitem.Item) {
		eachItem(cta, "links", func(lnk rawitem.Item) {
			u := first(lnk, ctaLinkURL)
			un := ""
			if u != "" {
				un = e.scanner.Unwrap(u)
			}
			text := stickerTextOf(lnk)
			if un == "" && text == "" {
				return
			}
			display := text
			if display == "" {
				display = un
			}
			add(types.Sticker{Type: textscan.ClassifySticker(text, un), Text: display})
		})
	})

	eachItem(it, "story_link_stickers", func(ls rawitem.Item) {
		u := first(ls, linkStickerURL)
		un := ""
		if u != "" {
			un = e.scanner.Unwrap(u)
		}
		text := stickerTextOf(ls)
		display := text
		if display == "" {
			display = un
		}
		add(types.Sticker{Type: textscan.ClassifySticker(text, un), Text: display, BBox: bboxOf(ls)})
	})

	eachItem(it, "tappable_objects", func(to rawitem.Item) {
		objType, _ := to.Str("object_type")
		text := stickerTextOf(to)
		u, ok := to.LookupStr("link", "url")
		if !ok {
			u, _ = to.Str("url")
		}
		un := ""
		if u != "" {
			un = e.scanner.Unwrap(u)
		}
		switch {
		case objType == "link" || un != "":
			display := un
			if display == "" {
				display = text
			}
			add(types.Sticker{Type: types.StickerURL, Text: display, BBox: bboxOf(to)})
		case text != "":
			add(types.Sticker{Type: textscan.ClassifySticker(text, ""), Text: text, BBox: bboxOf(to)})
		}
	})

	eachItem(it, "story_polls", func(p rawitem.Item) {
		s, _ := p.Map("poll_sticker")
		question, _ := s.Str("question")
		parts := []string{question}
		eachItem(s, "tallies", func(t rawitem.Item) {
			if txt, ok := t.Str("text"); ok {
				parts = append(parts, txt)
			}
		})
		if text := strings.TrimSpace(strings.Join(parts, " ")); text != "" {
			add(types.Sticker{Type: types.StickerGeneric, Text: text, BBox: bboxOf(s)})
		}
	})

	eachItem(it, "story_sliders", func(sl rawitem.Item) {
		s, _ := sl.Map("slider_sticker")
		question, _ := s.Str("question")
		emoji, _ := s.Str("emoji")
		if text := strings.TrimSpace(question + " " + emoji); text != "" {
			add(types.Sticker{Type: types.StickerGeneric, Text: text, BBox: bboxOf(s)})
		}
	})

	// Quizzes appear under two spellings depending on API vintage.
	quizKey := "story_quizs"
	if _, ok := it.List(quizKey); !ok {
		quizKey = "story_quiz"
	}
	eachItem(it, quizKey, func(q rawitem.Item) {
		s, _ := q.Map("quiz_sticker")
		question, _ := s.Str("question")
		parts := []string{question}
		eachItem(s, "tallies", func(t rawitem.Item) {
			if txt, ok := t.Str("text"); ok {
				parts = append(parts, txt)
			}
		})
		if text := strings.TrimSpace(strings.Join(parts, " ")); text != "" {
			add(types.Sticker{Type: types.StickerGeneric, Text: text, BBox: bboxOf(s)})
		}
	})

	eachItem(it, "story_questions", func(q rawitem.Item) {
		s, _ := q.Map("question_sticker")
		text, ok := s.Str("question")
		if !ok {
			text, _ = s.Str("question_text")
		}
		if text != "" {
			add(types.Sticker{Type: types.StickerGeneric, Text: text, BBox: bboxOf(s)})
		}
	})

	// Typed text stickers and overlay text carry full confidence; their
	// text feeds the raw text pool and is mined for coupon codes.
	for _, key := range []string{"story_static_models", "story_overlay_stickers"} {
		eachItem(it, key, func(sm rawitem.Item) {
			text := first(sm, overlayTextAccessors)
			if text == "" {
				return
			}
			box := bboxOf(sm)
			add(types.Sticker{Type: types.StickerGeneric, Text: text, BBox: box, Confidence: 1.0})
			textPool.add(text)
			for _, code := range textscan.CouponCodesFromText(text) {
				add(types.Sticker{Type: types.StickerCoupon, Text: code, BBox: box, Confidence: 1.0})
			}
		})
	}

	return stickers
}

// collectHashtags unions structured hashtag stickers with #tag tokens from
// the caption.
func collectHashtags(it rawitem.Item, caption string) []string {
	var tags []string
	eachItem(it, "story_hashtags", func(h rawitem.Item) {
		if name, ok := h.LookupStr("hashtag", "name"); ok {
			tags = append(tags, name)
		}
	})
	return textscan.UniqueStrings(append(tags, textscan.HashtagsFromCaption(caption)...))
}

// collectMentions unions reel mentions, mention-type tappables and @handle
// tokens from the caption.
func collectMentions(it rawitem.Item, caption string) []string {
	var handles []string
	eachItem(it, "reel_mentions", func(m rawitem.Item) {
		if u, ok := m.LookupStr("user", "username"); ok {
			handles = append(handles, u)
		}
	})
	eachItem(it, "tappable_objects", func(to rawitem.Item) {
		if objType, _ := to.Str("object_type"); objType != "mention" {
			return
		}
		u, ok := to.LookupStr("user", "username")
		if !ok {
			u, _ = to.Str("username")
		}
		if u != "" {
			handles = append(handles, u)
		}
	})
	return textscan.UniqueStrings(append(handles, textscan.MentionsFromCaption(caption)...))
}
