// pkg/types/record.go

// Package types defines the canonical record shapes produced by the
// StoryLens extraction engine. A StoryRecord is the flat, strongly-shaped
// result of normalizing one raw story-like media item.
package types

import "encoding/json"

// StickerType classifies an interactive overlay element.
type StickerType string

const (
	StickerURL     StickerType = "url"
	StickerPrice   StickerType = "price"
	StickerPercent StickerType = "percent"
	StickerCoupon  StickerType = "coupon"
	StickerDate    StickerType = "date"
	StickerGeneric StickerType = "generic"
)

// ValidStickerTypes returns all valid sticker type values.
func ValidStickerTypes() []StickerType {
	return []StickerType{
		StickerURL, StickerPrice, StickerPercent,
		StickerCoupon, StickerDate, StickerGeneric,
	}
}

// IsValid checks if the sticker type is a valid value.
func (t StickerType) IsValid() bool {
	for _, valid := range ValidStickerTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// String returns the string representation of the sticker type.
func (t StickerType) String() string {
	return string(t)
}

// BBox is a normalized bounding box as [x, y, w, h]. A sticker whose
// position is unknown carries the zero box.
type BBox [4]float64

// Sticker is one typed overlay candidate. Stickers are append-only: once
// created they are never mutated, only collected into a record.
type Sticker struct {
	Type       StickerType `json:"type"`
	Text       string      `json:"text"`
	BBox       BBox        `json:"bbox"`
	Confidence float64     `json:"confidence"`
}

// URLCandidate is one harvested or parsed URL. Two candidates with equal
// lowercase Text are the same entity; final records never contain duplicates
// by that key.
type URLCandidate struct {
	Text           string `json:"text"`
	ResolvedDomain string `json:"resolved_domain"`
}

// OCRResult is the outcome of the optical-text fallback pipeline for one
// item. Errors are advisory strings, never fatal.
type OCRResult struct {
	Texts      []string       `json:"texts"`
	Stickers   []Sticker      `json:"stickers"`
	URLs       []URLCandidate `json:"urls"`
	Errors     []string       `json:"errors"`
	Confidence float64        `json:"confidence"`
}

// MediaMeta carries the raw media dimensions and duration.
type MediaMeta struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	DurationMS int `json:"duration_ms"`
}

// SourceFlags summarizes which signal sources contributed to a record.
type SourceFlags struct {
	HasText     bool `json:"has_text"`
	HasStickers bool `json:"has_stickers"`
	HasLogoHint bool `json:"has_logo_hint"`
}

// BrandCandidate is a possible brand association with its detection method
// ("text" for keyword matches, "logo" for image-based detection).
type BrandCandidate struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// Processing records the extractor version and any advisory errors collected
// while the record was assembled.
type Processing struct {
	ExtractionVersion string   `json:"extraction_version"`
	Errors            []string `json:"errors"`
}

// StoryRecord is the canonical output record for one raw item. It is
// immutable after assembly and JSON-serializable with a stable field set.
// Nullable upstream fields are pointers so that absent values serialize as
// null rather than empty strings.
type StoryRecord struct {
	MediaID       string  `json:"media_id"`
	UserID        string  `json:"user_id"`
	Username      *string `json:"username"`
	Type          string  `json:"type"`
	TakenAtISO    *string `json:"taken_at_iso"`
	ExpiringAtISO *string `json:"expiring_at_iso"`

	Permalink *string `json:"permalink"`
	ImageURL  *string `json:"image_url"`
	VideoURL  *string `json:"video_url"`

	CaptionText   *string `json:"caption_text"`
	OCRText       *string `json:"ocr_text"`
	OCRConfidence float64 `json:"ocr_confidence"`

	Stickers          []Sticker      `json:"stickers"`
	URLs              []URLCandidate `json:"urls"`
	RawTextCandidates []string       `json:"raw_text_candidates"`
	Hashtags          []string       `json:"hashtags"`
	Mentions          []string       `json:"mentions"`

	FramesUsed []int     `json:"frames_used"`
	MediaMeta  MediaMeta `json:"media_meta"`

	LanguageGuess   *string          `json:"language_guess"`
	BrandCandidates []BrandCandidate `json:"brand_candidates"`
	SourceFlags     SourceFlags      `json:"source_flags"`

	ContentHash string     `json:"content_hash"`
	Processing  Processing `json:"processing"`
}

// MarshalIndent serializes the record as indented JSON.
func (r *StoryRecord) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Caption returns the caption text or an empty string when absent.
func (r *StoryRecord) Caption() string {
	if r.CaptionText == nil {
		return ""
	}
	return *r.CaptionText
}

// StrPtr returns a pointer to s, or nil when s is empty. Upstream fields are
// frequently blank rather than absent; both serialize as null.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
