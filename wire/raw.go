package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/adamwoolhether/assetstore/errs"
)

// Raw is an untyped JSON object as received from the marketplace.
type Raw map[string]any

// Decode reads one JSON object from r. Numbers are kept as [json.Number] so
// identifiers never lose precision.
func Decode(r io.Reader) (Raw, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.New(errs.ErrParse, "empty payload")
		}
		return nil, errs.Wrap(errs.ErrParse, err, "decoding payload")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errs.New(errs.ErrParse, fmt.Sprintf("payload is %s, not an object", kindOf(v)))
	}
	if len(obj) == 0 {
		return nil, errs.New(errs.ErrParse, "empty payload")
	}

	return Raw(obj), nil
}

// String returns the value at key rendered as a string. Numbers and booleans
// are formatted; anything else yields "".
func (r Raw) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the value at key as an integer, accepting numeric strings.
func (r Raw) Int(key string) int64 {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(f)
		}
	case float64:
		return floatToInt(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}

	return 0
}

// floatToInt truncates f, returning 0 when it is not finite or falls
// outside the int64 range.
func floatToInt(f float64) int64 {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0
	}

	return int64(f)
}

// Float returns the value at key as a float, accepting numeric strings.
func (r Raw) Float(key string) float64 {
	switch v := r[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}

	return 0
}

// Bool returns the value at key as a boolean.
func (r Raw) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}

	return false
}

// Object returns the nested object at key, or nil.
func (r Raw) Object(key string) Raw {
	if v, ok := r[key].(map[string]any); ok {
		return Raw(v)
	}
	if v, ok := r[key].(Raw); ok {
		return v
	}

	return nil
}

// Objects returns the nested objects of the array at key, skipping any
// element that is not an object.
func (r Raw) Objects(key string) []Raw {
	arr, _ := r[key].([]any)
	out := make([]Raw, 0, len(arr))
	for _, el := range arr {
		switch v := el.(type) {
		case map[string]any:
			out = append(out, Raw(v))
		case Raw:
			out = append(out, v)
		}
	}

	return out
}

// Strings returns the string elements of the array at key.
func (r Raw) Strings(key string) []string {
	arr, _ := r[key].([]any)
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
