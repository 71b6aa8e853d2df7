// internal/extract/extract.go

// Package extract turns raw story items into normalized StoryRecords. The
// engine is stateless across items: every Extract call starts from a fresh
// accumulator set, so records are deterministic for identical input.
package extract

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/storylens/storylens/internal/brand"
	"github.com/storylens/storylens/internal/monitoring"
	"github.com/storylens/storylens/internal/ocr"
	"github.com/storylens/storylens/internal/rawitem"
	"github.com/storylens/storylens/internal/textscan"
	"github.com/storylens/storylens/internal/utils"
	"github.com/storylens/storylens/pkg/types"
)

// ExtractionVersion tags every record with the schema/semantics revision
// that produced it.
const ExtractionVersion = "1.1.0"

// DebugSink receives the raw overlay-bearing fields of an item for offline
// inspection. Implementations must tolerate arbitrary nested values.
type DebugSink interface {
	Dump(mediaID string, fields map[string]interface{})
}

// Engine extracts normalized records from raw items.
type Engine struct {
	scanner   *textscan.Scanner
	harvester *textscan.Harvester
	ocr       *ocr.Pipeline
	brands    *brand.Matcher
	metrics   *monitoring.MetricsManager
	logger    utils.Logger
	version   string
}

// EngineOptions configures an Engine. Nil OCR disables the optical-text
// stage; nil Brands disables brand candidates; nil Metrics disables
// instrumentation.
type EngineOptions struct {
	Scanner *textscan.Scanner
	// CDNSuffixes overrides the default asset-host suffix set used by the
	// deep URL harvester. Empty keeps the defaults.
	CDNSuffixes []string
	OCR         *ocr.Pipeline
	Brands      *brand.Matcher
	Metrics     *monitoring.MetricsManager
	Logger      utils.Logger
}

// NewEngine assembles an extraction engine with defaults for anything not
// supplied.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Scanner == nil {
		opts.Scanner = textscan.NewScanner()
	}
	if opts.Logger == nil {
		opts.Logger = utils.NopLogger{}
	}
	harvester := textscan.NewHarvester(opts.Scanner)
	if len(opts.CDNSuffixes) > 0 {
		harvester.CDNSuffixes = opts.CDNSuffixes
	}
	return &Engine{
		scanner:   opts.Scanner,
		harvester: harvester,
		ocr:       opts.OCR,
		brands:    opts.Brands,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		version:   ExtractionVersion,
	}
}

// Options carries per-call extraction parameters.
type Options struct {
	// UserID is the tray owner, used when the item itself carries no owner.
	UserID string
	// MediaType labels the record; defaults to "story".
	MediaType string
	// Debug, when set, receives the raw overlay fields of each item.
	Debug DebugSink
}

// Extract normalizes one raw item into a StoryRecord. A nil item is the
// only fatal condition; every other missing or malformed field degrades to
// null/empty output and, at most, an advisory error string in the record.
func (e *Engine) Extract(ctx context.Context, it rawitem.Item, opts Options) (*types.StoryRecord, error) {
	start := time.Now()
	mediaType := opts.MediaType
	if mediaType == "" {
		mediaType = "story"
	}

	if it == nil {
		if e.metrics != nil {
			e.metrics.RecordExtractionError("nil_item")
		}
		return nil, utils.NewError(utils.ErrCodeNilItem, "cannot extract from nil item")
	}

	// Identity and media descriptors.
	mediaID, _ := it.Str("id")
	owner, _ := it.Map("user")
	userID := firstScalarString(owner, "pk", "pk_id", "id")
	if userID == "" {
		userID = opts.UserID
	}
	username, _ := owner.Str("username")

	width, _ := it.Int("original_width")
	height, _ := it.Int("original_height")
	durMs := 0
	if seconds, ok := it.Float("video_duration"); ok {
		durMs = int(math.Round(seconds * 1000))
	}

	imageURL := firstListItemStr(it, "image_versions2", "candidates", "url")
	if imageURL == "" {
		imageURL = firstScalarString(it, "display_url", "image_url")
	}
	videoURL := firstVersionURL(it, "video_versions")
	if videoURL == "" {
		videoURL, _ = it.Str("video_url")
	}

	caption := captionOf(it)
	takenAtISO := isoOf(it, "taken_at")
	expiringAtISO := isoOf(it, "expiring_at")

	// Accumulators.
	urls := textscan.NewURLSet()
	pool := newTextPool()
	hasText := false
	var procErrors []string

	// Structured URLs, then caption-derived ones.
	e.collectStructuredURLs(it, urls)
	if caption != "" {
		pool.add(caption)
		urls.AddAll(e.scanner.URLsFromText(caption))
	}

	hashtags := collectHashtags(it, caption)
	mentions := collectMentions(it, caption)

	stickers := e.collectStructuredStickers(it, pool)

	// Accessibility caption: upstream's generated description sometimes
	// quotes the literal on-screen text, which is free OCR.
	if desc, ok := it.Str("accessibility_caption"); ok {
		if text := textscan.AccessibilityText(desc); text != "" {
			pool.add(text)
			hasText = true
			box := types.BBox{}
			for _, code := range textscan.CouponCodesFromText(text) {
				stickers = append(stickers, types.Sticker{Type: types.StickerCoupon, Text: code, BBox: box, Confidence: 0.9})
			}
			stickers = append(stickers, types.Sticker{Type: types.StickerGeneric, Text: text, BBox: box, Confidence: 0.9})
			urls.AddAll(e.scanner.URLsFromText(text))
		}
	}

	// Content identity freezes here: optical-text findings vary with host
	// capabilities and must not move the hash.
	hashURLs := urls.Values()

	if opts.Debug != nil {
		opts.Debug.Dump(mediaID, debugFields(it))
	}

	// Optical-text fallback.
	var ocrText *string
	ocrConfidence := 0.0
	if e.ocr == nil || !e.ocr.Enabled() {
		procErrors = append(procErrors, ocr.ErrOCRNotEnabled)
	} else {
		ocrStart := time.Now()
		res := e.ocr.Run(ctx, ocr.Request{ImageURL: imageURL, VideoURL: videoURL, DurationMS: durMs})
		if e.metrics != nil {
			outcome := "empty"
			if len(res.Texts) > 0 {
				outcome = "text"
			} else if len(res.Errors) > 0 {
				outcome = "error"
			}
			e.metrics.RecordOCRRun(outcome, time.Since(ocrStart))
		}
		for _, text := range res.Texts {
			pool.add(text)
			hasText = true
		}
		if len(res.Texts) > 0 {
			ocrText = types.StrPtr(strings.Join(res.Texts, "\n"))
			ocrConfidence = res.Confidence
		}
		urls.AddAll(res.URLs)
		stickers = append(stickers, res.Stickers...)
		procErrors = append(procErrors, res.Errors...)
	}

	// Raw text pool folds in sticker texts last.
	stickerTexts := make([]string, 0, len(stickers))
	for _, s := range stickers {
		stickerTexts = append(stickerTexts, s.Text)
	}
	rawTexts := pool.finalize(stickerTexts)

	// Synthesize a url sticker for every URL not already covered by one.
	stickers = synthesizeURLStickers(stickers, urls.Values())

	urlList := urls.Values()
	framesUsed := framesUsedFor(durMs)
	hasText = hasText || caption != "" || len(rawTexts) > 0

	langSource := caption
	if langSource == "" && len(rawTexts) > 0 {
		langSource = rawTexts[0]
	}
	lang := textscan.GuessLanguage(langSource)

	var brandCandidates []types.BrandCandidate
	if e.brands != nil && len(rawTexts) > 0 {
		brandCandidates = e.brands.Match(strings.Join(rawTexts, " "))
	}
	if brandCandidates == nil {
		brandCandidates = []types.BrandCandidate{}
	}

	record := &types.StoryRecord{
		MediaID:       mediaID,
		UserID:        userID,
		Username:      types.StrPtr(username),
		Type:          mediaType,
		TakenAtISO:    takenAtISO,
		ExpiringAtISO: expiringAtISO,

		Permalink: nil,
		ImageURL:  types.StrPtr(imageURL),
		VideoURL:  types.StrPtr(videoURL),

		CaptionText:   types.StrPtr(caption),
		OCRText:       ocrText,
		OCRConfidence: ocrConfidence,

		Stickers:          stickers,
		URLs:              urlList,
		RawTextCandidates: rawTexts,
		Hashtags:          hashtags,
		Mentions:          mentions,

		FramesUsed: framesUsed,
		MediaMeta:  types.MediaMeta{Width: width, Height: height, DurationMS: durMs},

		LanguageGuess:   types.StrPtr(lang),
		BrandCandidates: brandCandidates,
		SourceFlags: types.SourceFlags{
			HasText:     hasText,
			HasStickers: len(stickers) > 0,
			HasLogoHint: false,
		},

		ContentHash: contentHash(mediaID, caption, hashURLs, hashtags, mentions),
		Processing: types.Processing{
			ExtractionVersion: e.version,
			Errors:            textscan.UniqueStrings(procErrors),
		},
	}
	normalizeRecordSlices(record)

	if e.metrics != nil {
		e.metrics.RecordItem(mediaType, "ok", time.Since(start))
		e.metrics.RecordURLs(len(record.URLs))
		for _, s := range record.Stickers {
			e.metrics.RecordSticker(s.Type.String())
		}
		for _, code := range record.Processing.Errors {
			e.metrics.RecordAdvisoryError(code)
		}
	}
	e.logger.WithFields(map[string]interface{}{
		"media_id": mediaID,
		"urls":     len(record.URLs),
		"stickers": len(record.Stickers),
	}).Debug("item extracted")

	return record, nil
}

// synthesizeURLStickers appends a url-type sticker for every collected URL
// whose text is not already represented by an existing url sticker.
func synthesizeURLStickers(stickers []types.Sticker, urls []types.URLCandidate) []types.Sticker {
	have := make(map[string]struct{}, len(stickers))
	for _, s := range stickers {
		if s.Type == types.StickerURL && s.Text != "" {
			have[strings.ToLower(s.Text)] = struct{}{}
		}
	}
	for _, u := range urls {
		if _, ok := have[strings.ToLower(u.Text)]; ok {
			continue
		}
		stickers = append(stickers, types.Sticker{Type: types.StickerURL, Text: u.Text})
	}
	return stickers
}

// framesUsedFor reports which video offsets (ms) informed extraction: start,
// and the 45s/90s marks clamped to the clip length. Images get an empty
// list.
func framesUsedFor(durMs int) []int {
	if durMs <= 0 {
		return []int{}
	}
	last := durMs - 1
	if last < 0 {
		last = 0
	}
	candidates := []int{0, minInt(45000, last), minInt(90000, last)}
	seen := make(map[int]struct{}, len(candidates))
	out := make([]int, 0, len(candidates))
	for _, f := range candidates {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// contentHash computes the SHA-1 identity of a record's user-visible
// content. Only content fields participate: processing metadata never
// changes the hash.
func contentHash(mediaID, caption string, urls []types.URLCandidate, hashtags, mentions []string) string {
	urlTexts := make([]string, 0, len(urls))
	for _, u := range urls {
		urlTexts = append(urlTexts, u.Text)
	}

	base := struct {
		MediaID  string   `json:"media_id"`
		Caption  *string  `json:"caption"`
		URLs     []string `json:"urls"`
		Hashtags []string `json:"hashtags"`
		Mentions []string `json:"mentions"`
	}{
		MediaID:  mediaID,
		Caption:  types.StrPtr(caption),
		URLs:     urlTexts,
		Hashtags: hashtags,
		Mentions: mentions,
	}
	if base.Hashtags == nil {
		base.Hashtags = []string{}
	}
	if base.Mentions == nil {
		base.Mentions = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(base); err != nil {
		return ""
	}
	sum := sha1.Sum(bytes.TrimRight(buf.Bytes(), "\n"))
	return hex.EncodeToString(sum[:])
}

// normalizeRecordSlices replaces nil slices with empty ones so records
// always serialize arrays, never null lists.
func normalizeRecordSlices(r *types.StoryRecord) {
	if r.Stickers == nil {
		r.Stickers = []types.Sticker{}
	}
	if r.URLs == nil {
		r.URLs = []types.URLCandidate{}
	}
	if r.RawTextCandidates == nil {
		r.RawTextCandidates = []string{}
	}
	if r.Hashtags == nil {
		r.Hashtags = []string{}
	}
	if r.Mentions == nil {
		r.Mentions = []string{}
	}
	if r.FramesUsed == nil {
		r.FramesUsed = []int{}
	}
	if r.Processing.Errors == nil {
		r.Processing.Errors = []string{}
	}
}

// captionOf reads the caption, which upstream delivers either as an object
// with a text field or as a bare string.
func captionOf(it rawitem.Item) string {
	switch v := it["caption"].(type) {
	case map[string]interface{}:
		s, _ := rawitem.Item(v).Str("text")
		return strings.TrimSpace(s)
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}

// isoOf converts a unix-seconds field to RFC 3339 UTC, nil when absent or
// zero.
func isoOf(it rawitem.Item, key string) *string {
	ts, ok := it.Float(key)
	if !ok || ts == 0 {
		return nil
	}
	iso := time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
	return &iso
}

// firstScalarString returns the first non-empty value among keys, coercing
// JSON numbers to decimal strings. Upstream ids appear as both.
func firstScalarString(it rawitem.Item, keys ...string) string {
	for _, key := range keys {
		switch v := it[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// firstVersionURL returns the url of the first entry in a media-version
// list.
func firstVersionURL(it rawitem.Item, key string) string {
	list, ok := it.List(key)
	if !ok {
		return ""
	}
	if first, ok := rawitem.AsItem(list[0]); ok {
		u, _ := first.Str("url")
		return u
	}
	return ""
}

// firstListItemStr descends parent.listKey[0].leaf.
func firstListItemStr(it rawitem.Item, parent, listKey, leaf string) string {
	scope := it
	if parent != "" {
		var ok bool
		scope, ok = it.Map(parent)
		if !ok {
			return ""
		}
	}
	list, ok := scope.List(listKey)
	if !ok {
		return ""
	}
	if first, ok := rawitem.AsItem(list[0]); ok {
		s, _ := first.Str(leaf)
		return s
	}
	return ""
}

// debugFields snapshots every overlay-bearing field of the raw item: the
// known sticker groups plus any key whose name suggests text content.
func debugFields(it rawitem.Item) map[string]interface{} {
	known := []string{
		"story_cta", "story_link_stickers", "tappable_objects",
		"story_bloks_stickers", "story_app_attribution",
		"story_shopping_stickers", "story_cta_stickers",
		"swipe_up_link", "action_link",
		"story_static_models", "story_text_stickers", "story_overlay_stickers",
	}
	out := make(map[string]interface{})
	for _, k := range known {
		if v, ok := it[k]; ok && v != nil {
			out[k] = v
		}
	}
	for k, v := range it {
		if _, dup := out[k]; dup || v == nil {
			continue
		}
		if strings.Contains(k, "text") || strings.Contains(k, "sticker") ||
			strings.Contains(k, "static") || strings.Contains(k, "overlay") {
			out[k] = v
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
