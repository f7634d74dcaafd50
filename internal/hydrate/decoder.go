// Package hydrate decodes persisted slot payloads into typed state values.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrEmptyPayload is returned for blank or JSON null payloads.
var ErrEmptyPayload = errors.New("hydrate: empty payload")

// Context identifies the slot a payload was read from.
type Context struct {
	Namespace string
	Slot      string
}

// PostHook lets callers adjust or validate the hydrated value after decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts stored JSON payloads into T.
type Decoder[T any] struct {
	postHooks      []PostHook[T]
	disallowFields bool
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithDisallowUnknownFields rejects payloads carrying fields T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.disallowFields = true
	}
}

// WithValidation runs Validate() on the decoded value when T (or *T)
// implements it.
func WithValidation[T any]() DecoderOption[T] {
	return WithPostHook[T](func(_ Context, value *T) error {
		return Validate(*value)
	})
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode unmarshals payload into a fresh T. When T is a struct and the payload
// is an object, top-level keys missing from the payload take their value from
// base; every key the payload carries replaces the base value wholesale. Any
// other T is decoded from the payload alone. base itself is never modified.
func (d *Decoder[T]) Decode(ctx Context, payload string, base T) (T, error) {
	trimmed := bytes.TrimSpace([]byte(payload))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return base, fmt.Errorf("%w: %s/%s", ErrEmptyPayload, ctx.Namespace, ctx.Slot)
	}

	var raw json.RawMessage
	scan := json.NewDecoder(bytes.NewReader(trimmed))
	if err := scan.Decode(&raw); err != nil {
		return base, fmt.Errorf("hydrate: decode %s/%s: %w", ctx.Namespace, ctx.Slot, err)
	}
	if scan.More() {
		return base, fmt.Errorf("hydrate: decode %s/%s: trailing data", ctx.Namespace, ctx.Slot)
	}

	source := []byte(raw)
	if isStruct[T]() && raw[0] == '{' {
		merged, err := fillMissingKeys(raw, base)
		if err != nil {
			return base, fmt.Errorf("hydrate: decode %s/%s: %w", ctx.Namespace, ctx.Slot, err)
		}
		source = merged
	}

	var result T
	decoder := json.NewDecoder(bytes.NewReader(source))
	if d.disallowFields {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&result); err != nil {
		return base, fmt.Errorf("hydrate: decode %s/%s: %w", ctx.Namespace, ctx.Slot, err)
	}

	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			return base, fmt.Errorf("hydrate: post-hook for %s/%s failed: %w", ctx.Namespace, ctx.Slot, err)
		}
	}
	return result, nil
}

func isStruct[T any]() bool {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Kind() == reflect.Struct
}

// fillMissingKeys returns stored with every top-level key of base it lacks.
// Keys match case-insensitively, as encoding/json does when decoding.
func fillMissingKeys[T any](stored json.RawMessage, base T) ([]byte, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(stored, &present); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	var defaults map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &defaults); err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if len(defaults) == 0 {
		return stored, nil
	}

	folded := make(map[string]struct{}, len(present))
	for key := range present {
		folded[strings.ToLower(key)] = struct{}{}
	}
	for key, value := range defaults {
		if _, ok := folded[strings.ToLower(key)]; !ok {
			present[key] = value
		}
	}
	return json.Marshal(present)
}

// Validate invokes the Validate method on value when present.
func Validate[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	rv := reflect.ValueOf(&value).Elem()
	if rv.Kind() != reflect.Pointer {
		if v, ok := rv.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate()
		}
	}
	return nil
}
