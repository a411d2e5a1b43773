package shop

import (
	"encoding/json"
	"fmt"
)

// List endpoints answer in one of three shapes: a bare array, an object with
// the array under "results", or an object with the array under a
// deployment-specific key. decodeEnvelope normalises all three; anything
// else degrades to an empty list.
func decodeEnvelope[T any](body []byte, keys ...string) []T {
	var records []T
	if err := json.Unmarshal(body, &records); err == nil {
		return records
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	seen := map[string]bool{}
	for _, key := range append(keys, "results") {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		records = nil
		if err := json.Unmarshal(raw, &records); err == nil {
			return records
		}
	}
	return nil
}

// decodeRecords decodes a strict JSON array and surfaces malformed payloads
// as errors, so the caller can treat the source as unavailable.
func decodeRecords[T any](body []byte, source string) ([]T, error) {
	var records []T
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("shop: decode %s payload: %w", source, err)
	}
	return records, nil
}
