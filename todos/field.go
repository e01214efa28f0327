// Package todos, as part of the todos module.
// This file, `field.go`, defines Field, the small "was this key in the JSON?" wrapper
// that PUT /todos/{id} needs to tell "leave it alone" apart from "set it to null".
// In TypeScript you would model this as `T | null | undefined` on a DTO property.
package todos

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON field that remembers whether it was present.
//
//	absent        -> Set=false
//	"key": null   -> Set=true, Null=true
//	"key": value  -> Set=true, Value=value
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null returns a present Field holding JSON null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		f.Null = true
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON writes null for absent or null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for a null field and a pointer to a copy of Value otherwise.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}
