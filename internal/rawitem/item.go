// internal/rawitem/item.go

// Package rawitem models the loosely-typed story items delivered by the
// upstream API. An Item is a decoded-JSON mapping; the helpers here replace
// ad-hoc type switches with named accessors so that fallback chains over
// differently-named optional fields become explicit, testable tables.
package rawitem

import "encoding/json"

// Item is one raw story entry as decoded from API JSON. Values are strings,
// float64 numbers, bools, nested map[string]interface{} or []interface{}.
// Items are owned by the caller and never mutated by the extraction engine.
type Item map[string]interface{}

// Decode parses a JSON object into an Item.
func Decode(data []byte) (Item, error) {
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, err
	}
	return it, nil
}

// AsItem converts an arbitrary decoded value into an Item when it is a
// mapping.
func AsItem(v interface{}) (Item, bool) {
	m, ok := v.(map[string]interface{})
	return Item(m), ok
}

// AsString converts an arbitrary decoded value into a non-empty string.
func AsString(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Str returns the non-empty string value at key.
func (it Item) Str(key string) (string, bool) {
	if it == nil {
		return "", false
	}
	return AsString(it[key])
}

// Map returns the nested mapping at key.
func (it Item) Map(key string) (Item, bool) {
	if it == nil {
		return nil, false
	}
	return AsItem(it[key])
}

// List returns the sequence at key.
func (it Item) List(key string) ([]interface{}, bool) {
	if it == nil {
		return nil, false
	}
	l, ok := it[key].([]interface{})
	if !ok || len(l) == 0 {
		return nil, false
	}
	return l, true
}

// Float returns the numeric value at key. JSON numbers decode as float64;
// numeric strings are not coerced.
func (it Item) Float(key string) (float64, bool) {
	if it == nil {
		return 0, false
	}
	f, ok := it[key].(float64)
	return f, ok
}

// Int returns the numeric value at key truncated to int.
func (it Item) Int(key string) (int, bool) {
	f, ok := it.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Lookup descends through nested mappings following path and returns the
// value at the leaf.
func (it Item) Lookup(path ...string) (interface{}, bool) {
	cur := it
	for i, key := range path {
		if i == len(path)-1 {
			if cur == nil {
				return nil, false
			}
			v, ok := cur[key]
			return v, ok
		}
		next, ok := cur.Map(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// LookupStr is Lookup restricted to non-empty string leaves.
func (it Item) LookupStr(path ...string) (string, bool) {
	v, ok := it.Lookup(path...)
	if !ok {
		return "", false
	}
	return AsString(v)
}

// Accessor extracts an optional string from an item. Accessors are combined
// into ordered tables: the first one that yields a value wins.
type Accessor func(Item) (string, bool)

// Key builds an accessor that follows the given path of map keys.
func Key(path ...string) Accessor {
	return func(it Item) (string, bool) {
		return it.LookupStr(path...)
	}
}

// FirstString runs accessors in order and returns the first hit.
func FirstString(it Item, accessors ...Accessor) (string, bool) {
	for _, a := range accessors {
		if s, ok := a(it); ok {
			return s, true
		}
	}
	return "", false
}
