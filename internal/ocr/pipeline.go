// internal/ocr/pipeline.go
package ocr

import (
	"context"
	"os"

	"github.com/storylens/storylens/internal/media"
	"github.com/storylens/storylens/internal/textscan"
	"github.com/storylens/storylens/internal/utils"
	"github.com/storylens/storylens/pkg/types"
)

// state is a phase of the media fallback walk for one item.
type state int

const (
	stateNoMedia state = iota
	stateImageOnly
	stateVideoPrimary
	stateVideoFallback
	stateDone
)

// Pipeline drives the optical-text fallback for one media item: image-only
// items go straight to OCR, video items get a mid-playback frame extracted,
// and any frame failure falls back to the video's thumbnail. Missing
// capabilities degrade to advisory errors; the pipeline itself never fails.
type Pipeline struct {
	engine    Engine
	frames    FrameExtractor
	fetcher   media.Fetcher
	staging   *Staging
	scanner   *textscan.Scanner
	languages string
	logger    utils.Logger
}

// PipelineOptions configures a Pipeline. A nil Engine means OCR is not
// enabled on this host; a nil Frames means video frames cannot be extracted.
type PipelineOptions struct {
	Engine    Engine
	Frames    FrameExtractor
	Fetcher   media.Fetcher
	Staging   *Staging
	Scanner   *textscan.Scanner
	Languages string
	Logger    utils.Logger
}

// NewPipeline assembles a pipeline, defaulting staging, scanner, language
// hints and logger.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Staging == nil {
		opts.Staging = NewStaging("")
	}
	if opts.Scanner == nil {
		opts.Scanner = textscan.NewScanner()
	}
	if opts.Languages == "" {
		opts.Languages = "heb+eng"
	}
	if opts.Logger == nil {
		opts.Logger = utils.NopLogger{}
	}
	return &Pipeline{
		engine:    opts.Engine,
		frames:    opts.Frames,
		fetcher:   opts.Fetcher,
		staging:   opts.Staging,
		scanner:   opts.Scanner,
		languages: opts.Languages,
		logger:    opts.Logger,
	}
}

// Enabled reports whether an OCR engine is wired in.
func (p *Pipeline) Enabled() bool {
	return p.engine != nil && p.fetcher != nil
}

// Request identifies the media of one item. DurationMS is zero for images.
type Request struct {
	ImageURL   string
	VideoURL   string
	DurationMS int
}

// FrameSecond picks the video timestamp to snapshot: half the duration,
// clamped to [1, 45] seconds. Stories max out at 60s, so the midpoint
// lands where overlay text is usually stable.
func FrameSecond(durationMS int) int {
	sec := durationMS / 2000
	if sec < 1 {
		sec = 1
	}
	if sec > 45 {
		sec = 45
	}
	return sec
}

// Run walks the fallback state machine for one item and returns whatever
// optical text was recovered. The result's Errors are advisory only.
func (p *Pipeline) Run(ctx context.Context, req Request) types.OCRResult {
	out := types.OCRResult{}

	if !p.Enabled() {
		if req.ImageURL != "" || req.VideoURL != "" {
			out.Errors = append(out.Errors, ErrOCRNotEnabled)
		}
		return out
	}

	var rec *Recognition
	st := p.initialState(req)

	for st != stateDone {
		switch st {
		case stateNoMedia:
			st = stateDone

		case stateImageOnly:
			rec = p.recognizeImage(ctx, req.ImageURL, &out)
			st = stateDone

		case stateVideoPrimary:
			rec, st = p.recognizeVideoFrame(ctx, req, &out)

		case stateVideoFallback:
			if req.ImageURL != "" {
				rec = p.recognizeImage(ctx, req.ImageURL, &out)
			}
			st = stateDone
		}
	}

	p.fold(rec, &out)
	return out
}

// initialState routes the request: still images (or zero-length videos that
// only carry a thumbnail) go to direct OCR, real videos to frame
// extraction.
func (p *Pipeline) initialState(req Request) state {
	switch {
	case req.ImageURL != "" && (req.VideoURL == "" || req.DurationMS == 0):
		return stateImageOnly
	case req.VideoURL != "":
		return stateVideoPrimary
	default:
		return stateNoMedia
	}
}

// recognizeImage fetches, stages and OCRs one image URL. Failures append an
// advisory error and return nil.
func (p *Pipeline) recognizeImage(ctx context.Context, imageURL string, out *types.OCRResult) *Recognition {
	data, err := p.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		p.logger.WithField("error", err).Debug("image fetch failed")
		out.Errors = append(out.Errors, ErrImageDownloadFailed)
		return nil
	}

	path, cleanup, err := p.staging.StageImage(data)
	if err != nil {
		p.logger.WithField("error", err).Debug("image staging failed")
		out.Errors = append(out.Errors, ErrOCRFailed)
		return nil
	}
	defer cleanup()

	rec, err := p.engine.Recognize(ctx, path, p.languages)
	if err != nil {
		p.logger.WithField("error", err).Debug("image recognition failed")
		out.Errors = append(out.Errors, ErrOCRFailed)
		return nil
	}
	return rec
}

// recognizeVideoFrame downloads the video, extracts the midpoint frame and
// OCRs it. Every failure degrades to the thumbnail fallback state.
func (p *Pipeline) recognizeVideoFrame(ctx context.Context, req Request, out *types.OCRResult) (*Recognition, state) {
	if p.frames == nil {
		out.Errors = append(out.Errors, ErrFFmpegMissing)
		return nil, stateVideoFallback
	}

	data, err := p.fetcher.Fetch(ctx, req.VideoURL)
	if err != nil {
		p.logger.WithField("error", err).Debug("video fetch failed")
		out.Errors = append(out.Errors, ErrFFmpegDownloadFailed)
		return nil, stateVideoFallback
	}

	videoPath, cleanup, err := p.staging.Stage(data, ".mp4")
	if err != nil {
		p.logger.WithField("error", err).Debug("video staging failed")
		out.Errors = append(out.Errors, ErrFFmpegDownloadFailed)
		return nil, stateVideoFallback
	}
	defer cleanup()

	framePath, err := p.frames.ExtractFrame(ctx, videoPath, FrameSecond(req.DurationMS))
	if err != nil {
		p.logger.WithField("error", err).Debug("frame extraction failed")
		out.Errors = append(out.Errors, ErrFFmpegExtractFailed)
		return nil, stateVideoFallback
	}
	defer removeFile(framePath)

	rec, err := p.engine.Recognize(ctx, framePath, p.languages)
	if err != nil {
		p.logger.WithField("error", err).Debug("frame recognition failed")
		out.Errors = append(out.Errors, ErrOCRFailed)
		return nil, stateVideoFallback
	}
	if rec == nil || rec.Text == "" {
		// Frame carried no text; the thumbnail often does.
		return nil, stateVideoFallback
	}
	return rec, stateDone
}

func removeFile(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// fold merges a recognition into the outcome: the raw text, plus URLs and
// coupon codes parsed out of it as synthesized stickers.
func (p *Pipeline) fold(rec *Recognition, out *types.OCRResult) {
	if rec == nil || rec.Text == "" {
		return
	}

	out.Texts = append(out.Texts, rec.Text)
	out.Confidence = rec.Confidence
	out.URLs = append(out.URLs, p.scanner.URLsFromText(rec.Text)...)

	for _, code := range textscan.CouponCodesFromText(rec.Text) {
		out.Stickers = append(out.Stickers, types.Sticker{
			Type:       types.StickerCoupon,
			Text:       code,
			Confidence: rec.Confidence,
		})
	}
}
