// Package jsonutil provides shared helpers for JSON parsing patterns:
// contextual error wrapping and tolerant decoding.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalSafe unmarshals JSON data into v. Returns false if the data is
// empty or cannot be parsed, true on success. Useful when consuming message
// streams where some payloads may be invalid.
func UnmarshalSafe(data []byte, v interface{}) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
