// internal/rawitem/item_test.go
package rawitem

import (
	"reflect"
	"testing"
)

func decodeItem(t *testing.T, payload string) Item {
	t.Helper()
	it, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return it
}

func TestDecode(t *testing.T) {
	it := decodeItem(t, `{"id": "3141", "taken_at": 1700000000}`)
	if got, ok := it.Str("id"); !ok || got != "3141" {
		t.Errorf("Str(id) = %q, %v", got, ok)
	}

	if _, err := Decode([]byte(`[1,2,3]`)); err == nil {
		t.Error("expected error decoding a non-object payload")
	}
}

func TestItemAccessors(t *testing.T) {
	it := decodeItem(t, `{
		"id": "abc",
		"empty": "",
		"count": 3.0,
		"duration": 14.7,
		"flag": true,
		"user": {"pk": 99, "username": "shani"},
		"items": [{"x": 1}],
		"none": []
	}`)

	if _, ok := it.Str("empty"); ok {
		t.Error("Str should reject empty strings")
	}
	if _, ok := it.Str("count"); ok {
		t.Error("Str should not coerce numbers")
	}
	if _, ok := it.Str("missing"); ok {
		t.Error("Str should miss on absent keys")
	}

	user, ok := it.Map("user")
	if !ok {
		t.Fatal("Map(user) missed")
	}
	if name, ok := user.Str("username"); !ok || name != "shani" {
		t.Errorf("nested Str = %q, %v", name, ok)
	}
	if _, ok := it.Map("id"); ok {
		t.Error("Map should reject scalars")
	}

	if l, ok := it.List("items"); !ok || len(l) != 1 {
		t.Errorf("List(items) = %v, %v", l, ok)
	}
	if _, ok := it.List("none"); ok {
		t.Error("List should miss on empty sequences")
	}

	if f, ok := it.Float("duration"); !ok || f != 14.7 {
		t.Errorf("Float(duration) = %v, %v", f, ok)
	}
	if n, ok := it.Int("duration"); !ok || n != 14 {
		t.Errorf("Int(duration) = %v, %v", n, ok)
	}
	if _, ok := it.Float("id"); ok {
		t.Error("Float should not coerce numeric strings")
	}
}

func TestItemNilSafety(t *testing.T) {
	var it Item
	if _, ok := it.Str("x"); ok {
		t.Error("nil Item.Str should miss")
	}
	if _, ok := it.Map("x"); ok {
		t.Error("nil Item.Map should miss")
	}
	if _, ok := it.List("x"); ok {
		t.Error("nil Item.List should miss")
	}
	if _, ok := it.Float("x"); ok {
		t.Error("nil Item.Float should miss")
	}
	if _, ok := it.Lookup("a", "b"); ok {
		t.Error("nil Item.Lookup should miss")
	}
}

func TestLookup(t *testing.T) {
	it := decodeItem(t, `{
		"story_link": {"link_context": {"url": "https://example.com"}},
		"leafless": {"a": {}}
	}`)

	if got, ok := it.LookupStr("story_link", "link_context", "url"); !ok || got != "https://example.com" {
		t.Errorf("LookupStr = %q, %v", got, ok)
	}
	if _, ok := it.LookupStr("story_link", "missing", "url"); ok {
		t.Error("LookupStr should miss on a broken path")
	}
	if _, ok := it.LookupStr("leafless", "a", "b"); ok {
		t.Error("LookupStr should miss on absent leaves")
	}

	// Lookup returns the raw value; non-string leaves are visible here.
	v, ok := it.Lookup("leafless", "a")
	if !ok {
		t.Fatal("Lookup missed an existing leaf")
	}
	if !reflect.DeepEqual(v, map[string]interface{}{}) {
		t.Errorf("Lookup leaf = %v", v)
	}
}

func TestFirstString(t *testing.T) {
	it := decodeItem(t, `{
		"webUri": "",
		"url": "https://first.example.com",
		"link_url": "https://second.example.com"
	}`)

	got, ok := FirstString(it,
		Key("webUri"),
		Key("url"),
		Key("link_url"),
	)
	if !ok || got != "https://first.example.com" {
		t.Errorf("FirstString = %q, %v, want the first non-empty hit", got, ok)
	}

	if _, ok := FirstString(it, Key("a"), Key("b")); ok {
		t.Error("FirstString should miss when no accessor hits")
	}
}
