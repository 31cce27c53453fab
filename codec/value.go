package codec

import "fmt"

// Kind discriminates the two shapes a decoded response can take.
type Kind int

const (
	// KindInvalid is the zero Kind; a Value with it holds nothing.
	KindInvalid Kind = iota
	// KindArray marks a top-level JSON array.
	KindArray
	// KindObject marks a top-level JSON object.
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a decoded response body: either an array or an object.
// The zero Value is invalid.
type Value struct {
	kind   Kind
	array  []any
	object map[string]any
}

// ArrayValue wraps a decoded array.
func ArrayValue(items []any) Value {
	if items == nil {
		items = []any{}
	}
	return Value{kind: KindArray, array: items}
}

// ObjectValue wraps a decoded object.
func ObjectValue(fields map[string]any) Value {
	if fields == nil {
		fields = map[string]any{}
	}
	return Value{kind: KindObject, object: fields}
}

// ValueOf wraps raw as a Value when it is a []any or map[string]any.
func ValueOf(raw any) (Value, bool) {
	switch v := raw.(type) {
	case []any:
		return ArrayValue(v), true
	case map[string]any:
		return ObjectValue(v), true
	default:
		return Value{}, false
	}
}

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsArray reports whether v holds an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsObject reports whether v holds an object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// Array returns the array held by v.
func (v Value) Array() ([]any, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.array, true
}

// Object returns the object held by v.
func (v Value) Object() (map[string]any, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.object, true
}

// Get looks up key in an object Value. It always reports false for arrays.
func (v Value) Get(key string) (any, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	val, ok := v.object[key]
	return val, ok
}

// Raw returns the untyped decoded value: []any, map[string]any or nil.
func (v Value) Raw() any {
	switch v.kind {
	case KindArray:
		return v.array
	case KindObject:
		return v.object
	default:
		return nil
	}
}

// Len returns the number of elements or fields.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.array)
	case KindObject:
		return len(v.object)
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return fmt.Sprintf("%s(%d)", v.kind, v.Len())
}
