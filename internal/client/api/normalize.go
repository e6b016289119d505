package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/memorylane/memorylane/internal/client/models"
)

// UnmarshalList reduces any of the backend's accepted list shapes to one
// ordered slice: a bare array, an object with one of the named fields, or an
// object with a "data" field. Named fields win over "data", matching the
// precedence the views have always relied on. An object carrying none of the
// expected fields normalizes to an empty list.
func UnmarshalList[T any](data []byte, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}

	for _, key := range append(keys, "data") {
		raw, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode list field %q: %w", key, err)
		}
		return out, nil
	}
	return nil, nil
}

// UnmarshalObject decodes a single record that may arrive bare, under a
// named field, or under "data".
func UnmarshalObject[T any](data []byte, keys ...string) (T, error) {
	var zero T

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return zero, fmt.Errorf("decode object: %w", err)
	}

	for _, key := range append(keys, "data") {
		raw, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		// Nested fields hold objects; a scalar here (e.g. a count named like
		// the key) means the record is the envelope itself.
		if r := bytes.TrimSpace(raw); len(r) > 0 && r[0] != '{' {
			continue
		}
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, fmt.Errorf("decode object field %q: %w", key, err)
		}
		return out, nil
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return zero, fmt.Errorf("decode object: %w", err)
	}
	return out, nil
}

// parseTotalPages extracts the optional pagination envelope; 0 means the
// total is unknown.
func parseTotalPages(data []byte) int {
	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Pagination == nil {
		return 0
	}
	return envelope.Pagination.TotalPages
}
