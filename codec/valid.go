package codec

import (
	"encoding"
	"fmt"
	"math"
	"reflect"

	gojson "github.com/goccy/go-json"
)

const maxJSONDepth = 512

var (
	marshalerType     = reflect.TypeOf((*gojson.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ValidJSONObject reports, without serializing, whether params can be
// represented as a JSON object. It rejects channels, functions, complex
// numbers, unsafe pointers, NaN and infinite floats, and maps whose keys
// are not strings or integers.
func ValidJSONObject(params Params) error {
	for k, v := range params {
		if err := checkJSON(reflect.ValueOf(v), k, 1); err != nil {
			return err
		}
	}
	return nil
}

func checkJSON(v reflect.Value, path string, depth int) error {
	if depth > maxJSONDepth {
		return fmt.Errorf("%s: nesting deeper than %d", path, maxJSONDepth)
	}
	if !v.IsValid() {
		return nil
	}
	if v.Type().Implements(marshalerType) || v.Type().Implements(textMarshalerType) {
		return nil
	}

	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s: %v is not representable in JSON", path, f)
		}
		return nil
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return checkJSON(v.Elem(), path, depth+1)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkJSON(v.Index(i), fmt.Sprintf("%s[%d]", path, i), depth+1); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if !validKey(v.Type().Key()) {
			return fmt.Errorf("%s: map key type %s is not supported", path, v.Type().Key())
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := checkJSON(iter.Value(), fmt.Sprintf("%s.%v", path, iter.Key()), depth+1); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("json") == "-" {
				continue
			}
			if err := checkJSON(v.Field(i), path+"."+f.Name, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%s: %s values are not representable in JSON", path, v.Kind())
	}
}

func validKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return t.Implements(textMarshalerType)
}
