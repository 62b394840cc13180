package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

type timestampShape uint8

const (
	timestampAbsent timestampShape = iota
	timestampStructured
	timestampISO
	timestampInvalid
)

// isoLayouts are tried in order when reading string timestamps.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a point in time stored either as a structured
// {seconds, nanoseconds} object or as an ISO-8601 string. The shape read is
// the shape written; values created with NewTimestamp are structured.
// Unusable stored values are preserved and sort as the Unix epoch.
type Timestamp struct {
	t     time.Time
	iso   string
	raw   json.RawMessage
	shape timestampShape
}

type structuredTimestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

type legacyStructuredTimestamp struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
	USeconds    *int64 `json:"_seconds"`
	UNanos      int64  `json:"_nanoseconds"`
}

// NewTimestamp returns a structured timestamp for t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC(), shape: timestampStructured}
}

// ISOTimestamp returns a string-shaped timestamp for t.
func ISOTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC(), iso: t.UTC().Format(time.RFC3339Nano), shape: timestampISO}
}

// Time returns the instant and whether the stored value was usable.
func (ts Timestamp) Time() (time.Time, bool) {
	switch ts.shape {
	case timestampStructured, timestampISO:
		return ts.t, true
	}
	return time.Time{}, false
}

// Effective returns the instant used for ordering; unusable values are the Unix epoch.
func (ts Timestamp) Effective() time.Time {
	if t, ok := ts.Time(); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// IsStructured reports whether the value is stored as {seconds, nanoseconds}.
func (ts Timestamp) IsStructured() bool { return ts.shape == timestampStructured }

// IsISO reports whether the value is stored as an ISO string.
func (ts Timestamp) IsISO() bool { return ts.shape == timestampISO }

// MarshalJSON writes the timestamp in the shape it was read in.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch ts.shape {
	case timestampStructured:
		return json.Marshal(structuredTimestamp{
			Seconds:     ts.t.Unix(),
			Nanoseconds: int64(ts.t.Nanosecond()),
		})
	case timestampISO:
		return json.Marshal(ts.iso)
	case timestampInvalid:
		return ts.raw, nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts structured objects, ISO strings and anything else.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	invalid := Timestamp{raw: append(json.RawMessage{}, trimmed...), shape: timestampInvalid}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*ts = invalid
			return nil
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				*ts = Timestamp{t: t.UTC(), iso: s, shape: timestampISO}
				return nil
			}
		}
	case '{':
		var obj legacyStructuredTimestamp
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			break
		}
		switch {
		case obj.Seconds != nil:
			*ts = Timestamp{t: time.Unix(*obj.Seconds, obj.Nanoseconds).UTC(), shape: timestampStructured}
			return nil
		case obj.USeconds != nil:
			*ts = Timestamp{t: time.Unix(*obj.USeconds, obj.UNanos).UTC(), shape: timestampStructured}
			return nil
		}
	}

	*ts = invalid
	return nil
}
