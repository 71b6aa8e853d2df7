// pkg/types/record_test.go
package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStickerTypeIsValid(t *testing.T) {
	for _, st := range ValidStickerTypes() {
		if !st.IsValid() {
			t.Errorf("%s should be valid", st)
		}
	}
	if StickerType("banner").IsValid() {
		t.Error("banner should not be valid")
	}
}

func TestStrPtr(t *testing.T) {
	if StrPtr("") != nil {
		t.Error("empty string should map to nil")
	}
	p := StrPtr("hello")
	if p == nil || *p != "hello" {
		t.Errorf("StrPtr = %v", p)
	}
}

func TestStoryRecordSerialization(t *testing.T) {
	record := &StoryRecord{
		MediaID:           "m1",
		UserID:            "42",
		Type:              "story",
		Stickers:          []Sticker{},
		URLs:              []URLCandidate{},
		RawTextCandidates: []string{},
		Hashtags:          []string{},
		Mentions:          []string{},
		FramesUsed:        []int{},
		BrandCandidates:   []BrandCandidate{},
		Processing:        Processing{ExtractionVersion: "1.1.0", Errors: []string{}},
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(data)

	// Absent nullable fields serialize as null, empty slices as arrays.
	for _, want := range []string{
		`"username":null`,
		`"caption_text":null`,
		`"ocr_text":null`,
		`"stickers":[]`,
		`"urls":[]`,
		`"frames_used":[]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized record missing %s: %s", want, out)
		}
	}
}

func TestStoryRecordCaption(t *testing.T) {
	r := &StoryRecord{}
	if r.Caption() != "" {
		t.Errorf("Caption = %q, want empty for nil", r.Caption())
	}
	r.CaptionText = StrPtr("hello")
	if r.Caption() != "hello" {
		t.Errorf("Caption = %q", r.Caption())
	}
}

func TestBBoxSerialization(t *testing.T) {
	s := Sticker{Type: StickerURL, Text: "https://example.com", BBox: BBox{0.1, 0.2, 0.3, 0.4}}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"bbox":[0.1,0.2,0.3,0.4]`) {
		t.Errorf("bbox serialized as %s", data)
	}
}
