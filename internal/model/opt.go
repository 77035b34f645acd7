package model

import (
	"bytes"
	"encoding/json"
)

// Opt is a patchable field: Set records that the key was present at all, and a
// nil Value with Set means an explicit null.
type Opt[T any] struct {
	Set   bool
	Value *T
}

func NewOpt[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: &v}
}

func NullOpt[T any]() Opt[T] {
	return Opt[T]{Set: true}
}

func (o Opt[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
