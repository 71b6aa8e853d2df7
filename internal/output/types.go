// internal/output/types.go

// Package output writes extracted records to files and databases. Every
// writer consumes the same fixed record schema; nested fields (stickers,
// urls, media_meta and so on) are serialized as JSON strings in tabular
// formats.
package output

import (
	"encoding/json"
	"strings"

	"github.com/storylens/storylens/pkg/types"
)

// Format identifies an output destination kind.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatExcel    Format = "excel"
	FormatSQLite   Format = "sqlite"
	FormatPostgres Format = "postgres"
	FormatMySQL    Format = "mysql"
	FormatMongoDB  Format = "mongodb"
)

// ValidFormats returns all supported output formats.
func ValidFormats() []Format {
	return []Format{
		FormatJSON, FormatCSV, FormatExcel,
		FormatSQLite, FormatPostgres, FormatMySQL, FormatMongoDB,
	}
}

// IsValid checks whether the format is supported.
func (f Format) IsValid() bool {
	for _, valid := range ValidFormats() {
		if f == valid {
			return true
		}
	}
	return false
}

// Writer persists a batch of records. Writers are single-use: Write may be
// called repeatedly, Close at most once.
type Writer interface {
	Write(records []*types.StoryRecord) error
	Flush() error
	Close() error
}

// recordColumns is the fixed column order shared by the tabular and SQL
// writers.
var recordColumns = []string{
	"media_id", "user_id", "username", "type",
	"taken_at_iso", "expiring_at_iso",
	"permalink", "image_url", "video_url",
	"caption_text", "ocr_text", "ocr_confidence",
	"stickers", "urls", "raw_text_candidates",
	"hashtags", "mentions", "frames_used", "media_meta",
	"language_guess", "brand_candidates", "source_flags",
	"content_hash", "extraction_version", "processing_errors",
}

// recordRow flattens one record into the recordColumns order. Nullable
// strings become nil, nested structures become compact JSON.
func recordRow(r *types.StoryRecord) []interface{} {
	return []interface{}{
		r.MediaID,
		r.UserID,
		strOrNil(r.Username),
		r.Type,
		strOrNil(r.TakenAtISO),
		strOrNil(r.ExpiringAtISO),
		strOrNil(r.Permalink),
		strOrNil(r.ImageURL),
		strOrNil(r.VideoURL),
		strOrNil(r.CaptionText),
		strOrNil(r.OCRText),
		r.OCRConfidence,
		jsonField(r.Stickers),
		jsonField(r.URLs),
		jsonField(r.RawTextCandidates),
		jsonField(r.Hashtags),
		jsonField(r.Mentions),
		jsonField(r.FramesUsed),
		jsonField(r.MediaMeta),
		strOrNil(r.LanguageGuess),
		jsonField(r.BrandCandidates),
		jsonField(r.SourceFlags),
		r.ContentHash,
		r.Processing.ExtractionVersion,
		jsonField(r.Processing.Errors),
	}
}

func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func jsonField(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// cellString renders a flattened value for text formats (CSV, Excel).
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		data, _ := json.Marshal(val)
		return string(data)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return strings.Trim(string(data), "\"")
	}
}
