// internal/ocr/tesseract_test.go
package ocr

import (
	"math"
	"testing"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
 <body>
  <div class='ocr_page' id='page_1'>
   <div class='ocr_carea' id='block_1_1'>
    <p class='ocr_par' id='par_1_1'>
     <span class='ocr_line' id='line_1_1' title="bbox 10 10 300 40">
      <span class='ocrx_word' id='word_1_1' title='bbox 10 10 100 40; x_wconf 96'>SALE</span>
      <span class='ocrx_word' id='word_1_2' title='bbox 110 10 200 40; x_wconf 88'>50%</span>
      <span class='ocrx_word' id='word_1_3' title='bbox 210 12 300 38; x_wconf 40'> </span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	rec, err := parseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("parseHOCR failed: %v", err)
	}

	// Whitespace-only words are dropped.
	if len(rec.Words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(rec.Words), rec.Words)
	}
	if rec.Text != "SALE 50%" {
		t.Errorf("Text = %q", rec.Text)
	}

	first := rec.Words[0]
	if first.Text != "SALE" {
		t.Errorf("first word = %q", first.Text)
	}
	if first.BBox != [4]int{10, 10, 90, 30} {
		t.Errorf("first bbox = %v, want [left top width height]", first.BBox)
	}
	if first.Confidence != 0.96 {
		t.Errorf("first confidence = %v", first.Confidence)
	}

	want := (0.96 + 0.88) / 2
	if math.Abs(rec.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", rec.Confidence, want)
	}
}

func TestParseHOCRNoWords(t *testing.T) {
	rec, err := parseHOCR([]byte(`<html><body><div class='ocr_page'></div></body></html>`))
	if err != nil {
		t.Fatalf("parseHOCR failed: %v", err)
	}
	if rec.Text != "" || len(rec.Words) != 0 || rec.Confidence != 0 {
		t.Errorf("empty page should yield a zero recognition: %+v", rec)
	}
}

func TestParseWordTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		box   [4]int
		conf  float64
	}{
		{
			name:  "bbox and confidence",
			title: "bbox 5 10 55 40; x_wconf 72",
			box:   [4]int{5, 10, 50, 30},
			conf:  0.72,
		},
		{
			name:  "confidence only",
			title: "x_wconf 90",
			box:   [4]int{},
			conf:  0.9,
		},
		{
			name:  "malformed coordinates ignored",
			title: "bbox 5 x 55 40; x_wconf 50",
			box:   [4]int{},
			conf:  0.5,
		},
		{
			name:  "empty title",
			title: "",
			box:   [4]int{},
			conf:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, conf := parseWordTitle(tt.title)
			if box != tt.box {
				t.Errorf("box = %v, want %v", box, tt.box)
			}
			if conf != tt.conf {
				t.Errorf("conf = %v, want %v", conf, tt.conf)
			}
		})
	}
}
