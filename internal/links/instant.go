package links

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant normalizes the representations a scheduling bound can
// arrive in: time values, RFC 3339 and common SQL strings, Unix
// milliseconds, and structured {seconds, nanoseconds} timestamps. The
// second result is false for nil, zero or unparsable input, which callers
// treat as "no bound".
func ParseInstant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return ParseInstant(*t)
	case interface{ AsTime() time.Time }:
		return ParseInstant(t.AsTime())
	case string:
		return parseInstantString(t, time.UTC)
	case []byte:
		return parseInstantString(string(t), time.UTC)
	case int64:
		return fromMillis(float64(t))
	case int:
		return fromMillis(float64(t))
	case float64:
		return fromMillis(t)
	case map[string]any:
		return parseStructured(t)
	}
	return time.Time{}, false
}

// ParseInstantPtr is ParseInstant for optional model fields.
func ParseInstantPtr(v any) *time.Time {
	t, ok := ParseInstant(v)
	if !ok {
		return nil
	}
	return &t
}

// ParseInstantIn is ParseInstant with strings that carry no offset, such
// as datetime-local form values, read as wall-clock time in loc.
func ParseInstantIn(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case string:
		return parseInstantString(t, loc)
	case []byte:
		return parseInstantString(string(t), loc)
	}
	return ParseInstant(v)
}

func parseInstantString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), true
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromMillis(float64(ms))
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

func parseStructured(m map[string]any) (time.Time, bool) {
	sec, ok := number(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nsec, _ := number(m, "nanoseconds", "_nanoseconds")
	return time.Unix(int64(sec), int64(nsec)).UTC(), true
}

func number(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}
