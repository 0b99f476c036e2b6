package iokit

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Kind is the statically expected type of a registry property.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindFloat
	KindInterval
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindFloat:
		return "double"
	case KindInterval:
		return "time interval"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TypeMismatchError reports a property whose value does not have the type
// its key is defined to carry.
type TypeMismatchError struct {
	Key  string
	Want Kind
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property %s: expected %s, got %T", e.Key, e.Want, e.Got)
}

// ReadInt reads key from svc as an integer.
func ReadInt(ctx context.Context, reg Registry, svc Service, key string) (int, bool, error) {
	return read(ctx, reg, svc, key, KindInt, asInt)
}

// ReadBool reads key from svc as a boolean.
func ReadBool(ctx context.Context, reg Registry, svc Service, key string) (bool, bool, error) {
	return read(ctx, reg, svc, key, KindBool, func(v any) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	})
}

// ReadFloat reads key from svc as a double. Integer values are widened.
func ReadFloat(ctx context.Context, reg Registry, svc Service, key string) (float64, bool, error) {
	return read(ctx, reg, svc, key, KindFloat, asFloat)
}

// ReadInterval reads key from svc as a number of seconds.
func ReadInterval(ctx context.Context, reg Registry, svc Service, key string) (time.Duration, bool, error) {
	return read(ctx, reg, svc, key, KindInterval, func(v any) (time.Duration, bool) {
		secs, ok := asFloat(v)
		if !ok {
			return 0, false
		}
		return time.Duration(secs * float64(time.Second)), true
	})
}

// ReadString reads key from svc as a string.
func ReadString(ctx context.Context, reg Registry, svc Service, key string) (string, bool, error) {
	return read(ctx, reg, svc, key, KindString, func(v any) (string, bool) {
		switch s := v.(type) {
		case string:
			return s, true
		case []byte:
			// IOPlatformExpertDevice publishes some identifiers as NUL-terminated data.
			for len(s) > 0 && s[len(s)-1] == 0 {
				s = s[:len(s)-1]
			}
			return string(s), true
		}
		return "", false
	})
}

func read[T any](ctx context.Context, reg Registry, svc Service, key string, kind Kind, convert func(any) (T, bool)) (T, bool, error) {
	var zero T

	raw, ok, err := reg.Property(ctx, svc, key)
	if err != nil {
		return zero, false, fmt.Errorf("failed to read property %s: %w", key, err)
	}
	if !ok || raw == nil {
		return zero, false, nil
	}

	v, ok := convert(raw)
	if !ok {
		return zero, false, &TypeMismatchError{Key: key, Want: kind, Got: raw}
	}
	return v, true, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		// ioreg prints signed registry numbers (e.g. a discharging Amperage)
		// as their unsigned 64-bit representation.
		if n > math.MaxInt64 {
			return int(int64(n)), true
		}
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
