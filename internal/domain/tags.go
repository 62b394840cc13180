package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

type tagsShape uint8

const (
	tagsAbsent tagsShape = iota
	tagsList
	tagsText
	tagsOther
)

// Tags holds a prompt's labels as they were stored: either a JSON array of
// strings or a single comma-separated string. Any other stored shape is kept
// verbatim and reads as no tags.
type Tags struct {
	list  []string
	text  string
	raw   json.RawMessage
	shape tagsShape
}

// TagList builds list-shaped tags. New documents always use this shape.
func TagList(tags ...string) Tags {
	return Tags{list: append([]string{}, tags...), shape: tagsList}
}

// TagString builds legacy comma-separated tags.
func TagString(s string) Tags {
	return Tags{text: s, shape: tagsText}
}

// TagsFromAny converts a decoded JSON value into Tags.
func TagsFromAny(v any) Tags {
	switch t := v.(type) {
	case nil:
		return Tags{}
	case string:
		return TagString(t)
	case []string:
		return TagList(t...)
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return otherTags(v)
			}
			list = append(list, s)
		}
		return TagList(list...)
	default:
		return otherTags(v)
	}
}

func otherTags(v any) Tags {
	raw, err := json.Marshal(v)
	if err != nil {
		return Tags{}
	}
	return Tags{raw: raw, shape: tagsOther}
}

// IsList reports whether the tags are stored as an array.
func (t Tags) IsList() bool { return t.shape == tagsList }

// IsText reports whether the tags are stored as a comma-separated string.
func (t Tags) IsText() bool { return t.shape == tagsText }

// Normalized returns the comparison form of the tags.
// List entries are lowercased only. A string is split on commas, each part
// trimmed and lowercased, and empty parts dropped. Other shapes yield nil.
func (t Tags) Normalized() []string {
	switch t.shape {
	case tagsList:
		out := make([]string, len(t.list))
		for i, tag := range t.list {
			out[i] = strings.ToLower(tag)
		}
		return out
	case tagsText:
		return splitTags(t.text, strings.ToLower)
	}
	return nil
}

// Values returns the tags with their original casing, splitting the string
// shape the same way Normalized does.
func (t Tags) Values() []string {
	switch t.shape {
	case tagsList:
		return append([]string{}, t.list...)
	case tagsText:
		return splitTags(t.text, nil)
	}
	return nil
}

// Canonical returns list-shaped tags with the same values.
func (t Tags) Canonical() Tags {
	return TagList(t.Values()...)
}

// Has reports whether the normalized tag set contains tag, compared lowercased.
func (t Tags) Has(tag string) bool {
	want := strings.ToLower(tag)
	for _, n := range t.Normalized() {
		if n == want {
			return true
		}
	}
	return false
}

func splitTags(s string, transform func(string) string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if transform != nil {
			part = transform(part)
		}
		out = append(out, part)
	}
	return out
}

// MarshalJSON writes the tags back in the shape they were read in.
func (t Tags) MarshalJSON() ([]byte, error) {
	switch t.shape {
	case tagsList:
		if t.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.list)
	case tagsText:
		return json.Marshal(t.text)
	case tagsOther:
		return t.raw, nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts any JSON value.
func (t *Tags) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = Tags{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(trimmed, &list); err == nil {
		*t = TagList(list...)
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		*t = TagString(text)
		return nil
	}

	*t = Tags{raw: append(json.RawMessage{}, trimmed...), shape: tagsOther}
	return nil
}
