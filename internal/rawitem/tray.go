// internal/rawitem/tray.go
package rawitem

import "strings"

// HighlightPrefix marks highlight reel identifiers in tray payloads.
const HighlightPrefix = "highlight:"

// ItemsFromEnvelope resolves the item list out of a saved API response
// envelope. The upstream wraps items differently per endpoint; the known
// shapes are tried in order:
//
//	reels.<userID>.items
//	reels_media[0].items
//	items
//
// A missing or malformed envelope yields an empty slice, never an error.
func ItemsFromEnvelope(envelope Item, userID string) []Item {
	if envelope == nil {
		return nil
	}
	if reels, ok := envelope.Map("reels"); ok {
		if reel, ok := reels.Map(userID); ok {
			if items := itemList(reel); items != nil {
				return items
			}
		}
		// Highlight trays key reels by the prefixed id.
		if reel, ok := reels.Map(HighlightPrefix + userID); ok {
			if items := itemList(reel); items != nil {
				return items
			}
		}
	}
	if media, ok := envelope.List("reels_media"); ok {
		if first, ok := AsItem(media[0]); ok {
			if items := itemList(first); items != nil {
				return items
			}
		}
	}
	return itemList(envelope)
}

func itemList(container Item) []Item {
	raw, ok := container.List("items")
	if !ok {
		return nil
	}
	items := make([]Item, 0, len(raw))
	for _, v := range raw {
		if it, ok := AsItem(v); ok {
			items = append(items, it)
		}
	}
	return items
}

// NormalizeHighlightID strips the "highlight:" prefix from a highlight reel
// identifier. Already-bare identifiers pass through unchanged.
func NormalizeHighlightID(id string) string {
	return strings.TrimPrefix(id, HighlightPrefix)
}
