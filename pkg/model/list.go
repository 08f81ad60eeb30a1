package model

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// ListKeys are the envelope fields a list response may wrap its records in.
var ListKeys = []string{"items", "data", "projects", "devlogs"}

// DecodeList decodes a list response that is either a bare JSON array or an
// object wrapping the array under one of keys (ListKeys when none are given).
// An envelope with none of the keys decodes to an empty list.
func DecodeList[T any](data []byte, keys ...string) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if data[0] == '[' {
		var out []T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return out, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding list envelope: %w", err)
	}
	if len(keys) == 0 {
		keys = ListKeys
	}
	for _, k := range keys {
		raw, ok := envelope[k]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", k, err)
		}
		return out, nil
	}
	return nil, nil
}

// IsEnvelope reports whether data is a JSON object carrying one of keys.
func IsEnvelope(data []byte, keys ...string) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return false
	}
	if len(keys) == 0 {
		keys = ListKeys
	}
	for _, k := range keys {
		if _, ok := envelope[k]; ok {
			return true
		}
	}
	return false
}
