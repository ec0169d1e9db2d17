package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when decoding a Timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is an optional point in time. The API sends RFC 3339 strings,
// SQL datetimes, epoch numbers, blanks or null. Values that cannot be
// parsed decode as unset instead of failing the enclosing record.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a set Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.Time.MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil || n <= 0 {
			return nil
		}
		// Millisecond epochs are 13 digits.
		if n >= 1e12 {
			*t = NewTimestamp(time.UnixMilli(int64(n)).UTC())
			return nil
		}
		*t = NewTimestamp(time.Unix(int64(n), 0).UTC())
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	*t = ParseTimestamp(raw)
	return nil
}

// ParseTimestamp decodes a timestamp that arrived as text. SQL datetimes
// without a zone are read as UTC.
func ParseTimestamp(raw string) Timestamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return NewTimestamp(parsed)
		}
	}
	return Timestamp{}
}

// Flag is a boolean the API may send as true/false, 0/1 or their string
// forms. Anything unrecognised decodes as false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = false
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = s
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "1":
		*f = true
	default:
		if n, err := strconv.ParseFloat(raw, 64); err == nil && n != 0 {
			*f = true
		}
	}
	return nil
}
