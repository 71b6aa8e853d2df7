// internal/ocr/types.go

// Package ocr implements the optical-text fallback pipeline: staging media
// to disk, recognizing text via an external OCR capability, and extracting
// still frames from video via an external frame capability. Everything
// external sits behind narrow interfaces so the pipeline is testable with
// fakes and degrades gracefully when a binary is absent on the host.
package ocr

import "context"

// Word is one recognized word with its confidence and pixel bounding box
// [left, top, width, height].
type Word struct {
	Text       string
	Confidence float64
	BBox       [4]int
}

// Recognition is the result of running OCR over one image.
type Recognition struct {
	Text       string
	Confidence float64
	Words      []Word
}

// Engine recognizes text in an image file. Language hints use the engine's
// native syntax (for Tesseract, "heb+eng").
type Engine interface {
	Recognize(ctx context.Context, imagePath, languages string) (*Recognition, error)
}

// FrameExtractor produces a still image from a video file at the given
// timestamp and returns the image path. The caller owns the returned file.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, videoPath string, second int) (string, error)
}

// Advisory error vocabulary recorded in processing errors. These never
// abort extraction.
const (
	ErrOCRNotEnabled        = "ocr_not_enabled"
	ErrFFmpegMissing        = "ffmpeg_missing"
	ErrFFmpegDownloadFailed = "ffmpeg_download_failed"
	ErrFFmpegExtractFailed  = "ffmpeg_extract_failed"
	ErrImageDownloadFailed  = "image_download_failed"
	ErrOCRFailed            = "ocr_failed"
)
