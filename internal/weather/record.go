package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one decoded report object from the provider's data array.
// Accessors return ok=false for absent or mistyped fields instead of failing.
type Record map[string]any

// Object returns a nested object field
func (r Record) Object(key string) (Record, bool) {
	v, ok := r[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(v), true
}

// String returns a non-empty string field
func (r Record) String(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case json.Number:
		return v.String(), true
	}
	return "", false
}

// Float returns a numeric field; numeric strings are accepted
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Array returns the object elements of an array field, skipping non-objects
func (r Record) Array(key string) ([]Record, bool) {
	items, ok := r[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, Record(obj))
		}
	}
	return out, true
}

// Path follows nested objects and returns the final object
func (r Record) Path(keys ...string) (Record, bool) {
	cur := r
	for _, k := range keys {
		next, ok := cur.Object(k)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// SelectReports returns the records of the top-level data array in order.
// An empty array is not an error.
func SelectReports(body []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedResponseError{Reason: "response is not valid JSON", Err: err}
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Reason: "top-level value is not an object"}
	}

	raw, present := root["data"]
	if !present {
		return nil, &MalformedResponseError{Reason: `"data" field is missing`}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &MalformedResponseError{Reason: `"data" field is not an array`}
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case map[string]any:
			records = append(records, Record(v))
		case string:
			// Undecodable stations come back as their raw report text
			records = append(records, Record{"raw_text": v})
		default:
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("data[%d] is not a report object", i)}
		}
	}

	return records, nil
}
