package bridge

import (
	"fmt"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/kbukum/bridge/errors"
)

// Parseable is satisfied by *T when T can build itself from a decoded
// JSON value (map[string]any, []any, string, float64, bool or nil).
type Parseable[T any] interface {
	*T
	ParseRaw(raw any) error
}

// ParseFunc builds a T from a decoded JSON value.
type ParseFunc[T any] func(raw any) (T, error)

// ParseModel parses raw through T's ParseRaw method.
func ParseModel[T any, PT Parseable[T]](raw any) (T, error) {
	var v T
	if err := PT(&v).ParseRaw(raw); err != nil {
		var zero T
		return zero, asParsing(err)
	}
	return v, nil
}

// ParseJSON re-decodes raw into T using its JSON struct tags.
func ParseJSON[T any](raw any) (T, error) {
	var v T
	data, err := gojson.Marshal(raw)
	if err != nil {
		return v, errors.Parsing("value cannot be re-encoded").WithCause(err)
	}
	if err := gojson.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, errors.Parsing(fmt.Sprintf("value does not match %T", v)).WithCause(err)
	}
	return v, nil
}

// ParseString renders raw as compact JSON text.
func ParseString(raw any) (string, error) {
	data, err := gojson.Marshal(raw)
	if err != nil {
		return "", errors.Parsing("value cannot be rendered as text").WithCause(err)
	}
	return string(data), nil
}

// Dict is a JSON object result.
type Dict map[string]any

// ParseRaw accepts an object.
func (d *Dict) ParseRaw(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return mismatch("an object", raw)
	}
	*d = m
	return nil
}

// List is a JSON array result.
type List []any

// ParseRaw accepts an array.
func (l *List) ParseRaw(raw any) error {
	items, ok := raw.([]any)
	if !ok {
		return mismatch("an array", raw)
	}
	*l = items
	return nil
}

// Slice is an array result whose elements all parse as E. One failing
// element fails the whole slice.
type Slice[E any, PE Parseable[E]] []E

// ParseRaw parses every element of an array.
func (s *Slice[E, PE]) ParseRaw(raw any) error {
	items, ok := raw.([]any)
	if !ok {
		return mismatch("an array", raw)
	}
	out := make([]E, len(items))
	for i, item := range items {
		if err := PE(&out[i]).ParseRaw(item); err != nil {
			return errors.Parsing(fmt.Sprintf("element %d: %s", i, reason(err))).WithCause(err)
		}
	}
	*s = out
	return nil
}

// Fields returns the object fields of raw, or a parsing error.
func Fields(raw any) (map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, mismatch("an object", raw)
	}
	return m, nil
}

// String reads a string field from an object.
func String(fields map[string]any, key string) (string, error) {
	v, ok := fields[key].(string)
	if !ok {
		return "", errors.Parsing(fmt.Sprintf("field %q: expected a string, got %s", key, describe(fields[key])))
	}
	return v, nil
}

// Int reads an integral number field from an object.
func Int(fields map[string]any, key string) (int, error) {
	v, ok := fields[key].(float64)
	// -MinInt is the smallest float above MaxInt.
	if !ok || v != math.Trunc(v) || v < math.MinInt || v >= -float64(math.MinInt) {
		return 0, errors.Parsing(fmt.Sprintf("field %q: expected an integer, got %s", key, describe(fields[key])))
	}
	return int(v), nil
}

func mismatch(want string, raw any) error {
	return errors.Parsing(fmt.Sprintf("expected %s, got %s", want, describe(raw)))
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

// asParsing keeps parsing errors and wraps everything else.
func asParsing(err error) error {
	if errors.IsParsing(err) {
		return err
	}
	return errors.Parsing(err.Error()).WithCause(err)
}

func reason(err error) string {
	if ce, ok := errors.AsCallError(err); ok {
		return ce.Message
	}
	return err.Error()
}
