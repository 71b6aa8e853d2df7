// internal/extract/debug.go
package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/storylens/storylens/internal/utils"
)

// DirDebugSink dumps the raw overlay fields of each item to a JSON file per
// media id, for diffing against extracted records when a new sticker field
// shows up upstream.
type DirDebugSink struct {
	dir    string
	logger utils.Logger
}

// NewDirDebugSink creates a sink writing under dir, creating it if needed.
func NewDirDebugSink(dir string, logger utils.Logger) (*DirDebugSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = utils.NopLogger{}
	}
	return &DirDebugSink{dir: dir, logger: logger}, nil
}

// Dump writes the fields snapshot. Failures are logged, never propagated;
// debug output must not disturb extraction.
func (s *DirDebugSink) Dump(mediaID string, fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}

	name := "story_debug.json"
	if mediaID != "" {
		name = "story_debug_" + sanitizeFilename(mediaID) + ".json"
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		s.logger.WithField("error", err).Warn("debug dump encode failed")
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		s.logger.WithField("error", err).Warn("debug dump write failed")
	}
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
