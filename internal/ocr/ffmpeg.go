// internal/ocr/ffmpeg.go
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg extracts still frames from video files using the ffmpeg binary.
type FFmpeg struct {
	binary string
}

// NewFFmpeg locates the ffmpeg binary. An empty path searches PATH.
// Returns an error when the binary is not installed; the pipeline records
// an advisory and falls back to the thumbnail.
func NewFFmpeg(binary string) (*FFmpeg, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	return &FFmpeg{binary: resolved}, nil
}

// ExtractFrame writes a single JPEG frame taken at the given second next to
// the source video and returns its path. The caller removes the frame when
// done.
func (f *FFmpeg) ExtractFrame(ctx context.Context, videoPath string, second int) (string, error) {
	framePath := videoPath + ".jpg"

	// -ss before -i seeks on the demuxer, which is fast and accurate
	// enough for a text snapshot.
	args := []string{
		"-y",
		"-ss", strconv.Itoa(second),
		"-i", videoPath,
		"-frames:v", "1",
		framePath,
	}
	cmd := exec.CommandContext(ctx, f.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(framePath)
		return "", fmt.Errorf("ffmpeg frame extract failed: %w: %s", err, lastLine(stderr.String()))
	}

	info, err := os.Stat(framePath)
	if err != nil || info.Size() == 0 {
		os.Remove(framePath)
		return "", fmt.Errorf("ffmpeg produced no frame at %ds", second)
	}
	return framePath, nil
}

// lastLine returns the final non-empty line of ffmpeg's stderr, which is
// where it reports the actual failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
