package prototype

import (
	"encoding/json"
	"reflect"
)

// CloneSlice returns a new slice holding copies of the elements of s. The
// elements themselves are copied by value. A nil input yields nil and a
// non-nil empty input yields a distinct non-nil empty slice.
func CloneSlice[E any](s []E) []E {
	if s == nil {
		return nil
	}
	out := make([]E, len(s))
	copy(out, s)
	return out
}

// CloneStringMap returns an independent copy of m.
func CloneStringMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CloneAttributes deep copies a JSON-compatible attribute bag so nested maps
// and slices are not shared with the source.
func CloneAttributes(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies the maps keyed by strings, slices and arrays
// reachable from value, including those held behind interface elements.
// Scalars are returned as-is. Pointers, channels, functions and structs are
// returned unchanged and therefore aliased. Nil maps and slices stay nil.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64,
		json.Number:
		return typed
	case map[string]any:
		return CloneAttributes(typed)
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = CloneValue(v)
		}
		return out
	case []string:
		return CloneSlice(typed)
	case map[string]string:
		return CloneStringMap(typed)
	}
	return deepCopy(reflect.ValueOf(value)).Interface()
}

// deepCopy returns a copy of v with the same type. Containers are rebuilt
// element by element; every other kind is returned as v.
func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		for iter := v.MapRange(); iter.Next(); {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		return v
	}
}

// IsNil reports whether v is nil or an interface holding a nil pointer, map,
// slice, function or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
