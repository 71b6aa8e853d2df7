// internal/ocr/tesseract.go
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tesseract runs the tesseract binary in hOCR mode and parses the XHTML it
// emits. hOCR carries per-word confidence and bounding boxes, which plain
// text output does not.
type Tesseract struct {
	binary string
}

// NewTesseract locates the tesseract binary. An empty path searches PATH.
// Returns an error when the binary is not installed; callers treat that as
// the capability being disabled, not a fatal condition.
func NewTesseract(binary string) (*Tesseract, error) {
	if binary == "" {
		binary = "tesseract"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("tesseract not found: %w", err)
	}
	return &Tesseract{binary: resolved}, nil
}

// Recognize runs OCR over imagePath and parses the hOCR result.
func (t *Tesseract) Recognize(ctx context.Context, imagePath, languages string) (*Recognition, error) {
	if languages == "" {
		languages = "heb+eng"
	}

	args := []string{imagePath, "stdout", "-l", languages, "--psm", "6", "hocr"}
	cmd := exec.CommandContext(ctx, t.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseHOCR(stdout.Bytes())
}

// parseHOCR extracts words from hOCR output. Each recognized word is a
// span.ocrx_word whose title attribute carries
// "bbox x0 y0 x1 y1; x_wconf N".
func parseHOCR(data []byte) (*Recognition, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("hocr parse: %w", err)
	}

	rec := &Recognition{}
	var confSum float64

	doc.Find("span.ocrx_word").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		word := Word{Text: text}
		if title, ok := sel.Attr("title"); ok {
			word.BBox, word.Confidence = parseWordTitle(title)
		}
		rec.Words = append(rec.Words, word)
		confSum += word.Confidence
	})

	if len(rec.Words) == 0 {
		return rec, nil
	}

	texts := make([]string, len(rec.Words))
	for i, w := range rec.Words {
		texts[i] = w.Text
	}
	rec.Text = strings.Join(texts, " ")
	rec.Confidence = confSum / float64(len(rec.Words))
	return rec, nil
}

// parseWordTitle decodes an hOCR title attribute into a [left, top, width,
// height] box and a 0..1 confidence.
func parseWordTitle(title string) ([4]int, float64) {
	var box [4]int
	var conf float64

	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(part))
		switch {
		case len(fields) == 5 && fields[0] == "bbox":
			coords := make([]int, 4)
			ok := true
			for i, f := range fields[1:] {
				n, err := strconv.Atoi(f)
				if err != nil {
					ok = false
					break
				}
				coords[i] = n
			}
			if ok {
				box = [4]int{coords[0], coords[1], coords[2] - coords[0], coords[3] - coords[1]}
			}
		case len(fields) == 2 && fields[0] == "x_wconf":
			if n, err := strconv.ParseFloat(fields[1], 64); err == nil {
				conf = n / 100
			}
		}
	}
	return box, conf
}
