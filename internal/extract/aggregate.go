// internal/extract/aggregate.go
package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/storylens/storylens/internal/textscan"
)

// textPool accumulates raw text candidates for one record: caption,
// accessibility text, typed sticker text and OCR output. Entries are
// NFC-normalized so that visually identical Hebrew strings with different
// combining sequences deduplicate correctly.
type textPool struct {
	entries []string
}

func newTextPool() *textPool {
	return &textPool{}
}

// add inserts one text candidate. Blank strings are dropped; trimming and
// deduplication happen at finalize time.
func (p *textPool) add(text string) {
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return
	}
	p.entries = append(p.entries, text)
}

// finalize folds sticker texts into the pool and returns the deduplicated
// candidate list in first-seen order.
func (p *textPool) finalize(stickerTexts []string) []string {
	merged := make([]string, 0, len(p.entries)+len(stickerTexts))
	merged = append(merged, p.entries...)
	for _, t := range stickerTexts {
		merged = append(merged, norm.NFC.String(strings.TrimSpace(t)))
	}
	return textscan.UniqueStrings(merged)
}
