package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"inventory/internal/schema"
	"inventory/internal/validator"
)

// inputLayouts are the datetime spellings accepted from forms and files.
var inputLayouts = []string{
	schema.DatetimeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// inputString flattens a decoded JSON or CSV value to trimmed text.
func inputString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// coerce converts raw input into the value stored for f. Relation values are
// returned as trimmed text for the caller to resolve. The second result is a
// user-facing message when the input is unusable.
func coerce(f schema.Field, raw any) (any, string) {
	s := inputString(raw)

	switch f.Kind {
	case schema.KindNumber:
		if s == "" {
			return nil, ""
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Sprintf("%s must be a valid number", f.Label)
		}
		if f.NonNegative && n < 0 {
			return nil, fmt.Sprintf("%s must be a non-negative number", f.Label)
		}
		if f.Integer {
			if n != math.Trunc(n) {
				return nil, fmt.Sprintf("%s must be a whole number", f.Label)
			}
			return int64(n), ""
		}
		return n, ""

	case schema.KindDatetime:
		if s == "" {
			return nil, ""
		}
		t, ok := parseTime(s)
		if !ok {
			return nil, fmt.Sprintf("%s must be a date and time like 2006-01-02 15:04:05", f.Label)
		}
		return t, ""

	case schema.KindSelect:
		if s == "" {
			return "", ""
		}
		if msg := validator.CheckOption(f, s); msg != "" {
			return nil, msg
		}
		return s, ""

	case schema.KindRelation:
		if s == "" {
			return nil, ""
		}
		return s, ""

	default:
		if s != "" && f.Format != schema.FormatNone {
			if msg := validator.CheckFormat(f.Format, s); msg != "" {
				return nil, msg
			}
		}
		return s, ""
	}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isEmpty treats NULL and the empty string alike.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// equalValues compares a stored value with a candidate for change detection.
// Datetimes compare at second precision through their text form so a text
// spelling of the stored instant is not a change.
func equalValues(f schema.Field, stored, candidate any) bool {
	if isEmpty(stored) || isEmpty(candidate) {
		return isEmpty(stored) && isEmpty(candidate)
	}

	switch f.Kind {
	case schema.KindDatetime:
		a, okA := asTime(stored)
		b, okB := asTime(candidate)
		if okA && okB {
			return a.Format(schema.DatetimeLayout) == b.Format(schema.DatetimeLayout)
		}
	case schema.KindNumber, schema.KindRelation:
		a, okA := asFloat(stored)
		b, okB := asFloat(candidate)
		if okA && okB {
			return a == b
		}
	}
	return formatValue(f, stored) == formatValue(f, candidate)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.In(time.Local), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return t.In(time.Local), true
	case string:
		return parseTime(t)
	}
	return time.Time{}, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// formatValue renders a value as text for exports, facets and identifiers.
// Absent values render as "".
func formatValue(f schema.Field, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if f.Kind == schema.KindDatetime {
			if t, ok := parseTime(x); ok {
				return t.Format(schema.DatetimeLayout)
			}
		}
		return x
	case []byte:
		return string(x)
	case json.RawMessage:
		return string(x)
	case time.Time:
		return x.In(time.Local).Format(schema.DatetimeLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.In(time.Local).Format(schema.DatetimeLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint, uint32, uint64:
		return fmt.Sprint(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// normalizeValue maps a scanned driver value onto the small set of Go types
// the engine works with: string, int64, float64, time.Time, json.RawMessage.
func normalizeValue(f schema.Field, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return normalizeValue(f, string(x))
	case string:
		switch f.Kind {
		case schema.KindJSON:
			if x == "" {
				return nil
			}
			if json.Valid([]byte(x)) {
				return json.RawMessage(x)
			}
		case schema.KindDatetime:
			if t, ok := parseTime(x); ok {
				return t
			}
		case schema.KindNumber, schema.KindRelation:
			if n, ok := asFloat(x); ok {
				return numberFor(f, n)
			}
		}
		return x
	case time.Time:
		return x
	case bool:
		return x
	default:
		if n, ok := asFloat(x); ok {
			return numberFor(f, n)
		}
		return x
	}
}

func numberFor(f schema.Field, n float64) any {
	if f.Kind == schema.KindRelation || f.Integer || f.Key == "id" {
		return int64(n)
	}
	return n
}

// auditValue renders a value for the change log detail.
func auditValue(f schema.Field, v any) any {
	switch x := v.(type) {
	case time.Time, *time.Time:
		return formatValue(f, x)
	default:
		return x
	}
}

// sortShadow returns the shadow sort column value for f, if it has one.
func sortShadow(f schema.Field, v any) (string, any, bool) {
	if f.SortColumn == "" {
		return "", nil, false
	}
	if f.Format == schema.FormatIPv4 {
		n, _ := validator.IPv4Number(inputString(v))
		return f.SortColumn, n, true
	}
	return f.SortColumn, v, true
}
