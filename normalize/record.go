// Package normalize turns the backend's inconsistent JSON payloads into one
// canonical shape per entity.
//
// The analytics backend is not consistent: collections arrive either as a bare
// array or wrapped in an object ({"drivers": [...]}, {"standings": [...]}),
// and the same field shows up under different names depending on the upstream
// source (Ergast, OpenF1, FastF1). Every accepted input shape is listed on the
// normalizer that handles it; missing fields fall back to documented defaults.
package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultWrapperKeys are tried when a caller does not name its own.
var DefaultWrapperKeys = []string{"data", "results", "items"}

// Record is a single decoded JSON object.
type Record map[string]any

// List accepts either a bare JSON array of objects, or an object holding such
// an array under the first matching wrapper key. Non-object array elements are
// dropped. Any other input yields an empty, non-nil list.
func List(raw []byte, wrapperKeys ...string) []Record {
	if len(wrapperKeys) == 0 {
		wrapperKeys = DefaultWrapperKeys
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []Record{}
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return []Record{}
	}
	return listFrom(v, wrapperKeys)
}

// Object decodes a JSON object, or returns nil for anything else.
func Object(raw []byte) Record {
	var v any
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimSpace(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return Record(m)
}

func listFrom(v any, wrapperKeys []string) []Record {
	switch t := v.(type) {
	case []any:
		return records(t)
	case map[string]any:
		for _, k := range wrapperKeys {
			if arr, ok := t[k].([]any); ok {
				return records(arr)
			}
		}
	}
	return []Record{}
}

func records(arr []any) []Record {
	out := make([]Record, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// String returns the first non-empty value among keys, rendered as a string.
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// Float returns the first numeric value among keys. Numeric strings count.
func (r Record) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// FloatOr is Float with a default.
func (r Record) FloatOr(def float64, keys ...string) float64 {
	if f, ok := r.Float(keys...); ok && !math.IsNaN(f) {
		return f
	}
	return def
}

// Int returns the first integral value among keys, truncating fractions.
func (r Record) Int(keys ...string) (int, bool) {
	f, ok := r.Float(keys...)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// IntOr is Int with a default.
func (r Record) IntOr(def int, keys ...string) int {
	if i, ok := r.Int(keys...); ok {
		return i
	}
	return def
}

func (r Record) Bool(keys ...string) bool {
	for _, k := range keys {
		switch v := r[k].(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return false
}

// Record returns the first nested object among keys.
func (r Record) Record(keys ...string) Record {
	for _, k := range keys {
		if m, ok := r[k].(map[string]any); ok {
			return Record(m)
		}
	}
	return nil
}

// List returns the first nested array of objects among keys.
func (r Record) List(keys ...string) []Record {
	for _, k := range keys {
		if arr, ok := r[k].([]any); ok {
			return records(arr)
		}
	}
	return nil
}

// Has reports whether any of keys holds a non-null value.
func (r Record) Has(keys ...string) bool {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// fullName joins given and family names when no display name exists.
func fullName(r Record, nameKeys ...string) string {
	if n := r.String(nameKeys...); n != "" {
		return n
	}
	given := r.String("givenName", "given_name", "first_name")
	family := r.String("familyName", "family_name", "last_name")
	return strings.TrimSpace(given + " " + family)
}

// TeamKey reduces a team display name to a lookup key:
// "Red Bull Racing" -> "red bull", "Haas F1 Team" -> "haas".
func TeamKey(name string) string {
	if name == "" {
		return ""
	}
	k := strings.ToLower(name)
	for _, drop := range []string{"formula one team", "f1 team", "racing"} {
		k = strings.ReplaceAll(k, drop, "")
	}
	k = strings.NewReplacer("-", " ", "_", " ").Replace(k)
	return strings.Join(strings.Fields(k), " ")
}
