// Package layering clones state values and applies shallow partial updates
// to them.
package layering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Clone returns a deep copy of value so callers can hand out state without
// sharing maps, slices or pointers with the original.
func Clone[T any](value T) T {
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	return cloned.Interface().(T)
}

// ApplyPatch shallow-merges patch into base by JSON field name. Top-level
// fields present in patch replace the corresponding field of base; fields
// absent from patch keep their value. Nested objects are replaced whole, not
// merged. base is never mutated.
func ApplyPatch[T any](base T, patch map[string]any) (T, error) {
	if len(patch) == 0 {
		return Clone(base), nil
	}

	encoded, err := json.Marshal(base)
	if err != nil {
		return base, fmt.Errorf("layering: encode base: %w", err)
	}
	current := map[string]any{}
	if !bytes.Equal(bytes.TrimSpace(encoded), []byte("null")) {
		if err := json.Unmarshal(encoded, &current); err != nil {
			return base, fmt.Errorf("layering: base is not an object: %w", err)
		}
	}
	for key, value := range patch {
		current[key] = value
	}

	merged, err := json.Marshal(current)
	if err != nil {
		return base, fmt.Errorf("layering: encode patch: %w", err)
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return base, fmt.Errorf("layering: apply patch: %w", err)
	}
	return out, nil
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
