package utils

import (
	"strings"
	"time"
)

// ParseTimestamp reads an RFC 3339 timestamp from a request body. An empty
// string yields nil so callers can tell "not given" from "malformed".
func ParseTimestamp(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
