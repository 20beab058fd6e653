// Package params provides typed extraction from an action's parameter bag.
// Bags arrive as map[string]any, typically decoded from JSON, so numeric
// values may be float64; every accessor tolerates the JSON-decoded forms.
// All failures are InvalidParameters and occur before any backend call.
package params

import (
	"math"

	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

// String extracts a required string parameter.
func String(bag map[string]any, key string) (string, error) {
	v, ok := bag[key]
	if !ok {
		return "", cpierrors.Newf(cpierrors.KindInvalidParameters, "missing required parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must be a string, got %T", key, v)
	}
	if s == "" {
		return "", cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must not be empty", key)
	}
	return s, nil
}

// OptString extracts an optional string parameter, returning def when absent.
// A present value of the wrong type is still an error.
func OptString(bag map[string]any, key, def string) (string, error) {
	v, ok := bag[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must be a string, got %T", key, v)
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// Int extracts a required integer parameter. JSON decoding yields float64,
// so integral floats are accepted; fractional values are rejected.
func Int(bag map[string]any, key string) (int32, error) {
	v, ok := bag[key]
	if !ok {
		return 0, cpierrors.Newf(cpierrors.KindInvalidParameters, "missing required parameter %q", key)
	}
	return toInt32(v, key)
}

// OptBool extracts an optional boolean parameter, returning def when absent.
func OptBool(bag map[string]any, key string, def bool) (bool, error) {
	v, ok := bag[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must be a boolean, got %T", key, v)
	}
	return b, nil
}

// StringMap extracts a required string-to-string mapping. JSON decoding
// yields map[string]any, so both forms are accepted as long as every value
// is a string.
func StringMap(bag map[string]any, key string) (map[string]string, error) {
	v, ok := bag[key]
	if !ok {
		return nil, cpierrors.Newf(cpierrors.KindInvalidParameters, "missing required parameter %q", key)
	}
	return toStringMap(v, key)
}

// OptStringMap extracts an optional string-to-string mapping, returning nil
// when absent.
func OptStringMap(bag map[string]any, key string) (map[string]string, error) {
	v, ok := bag[key]
	if !ok || v == nil {
		return nil, nil
	}
	return toStringMap(v, key)
}

func toInt32(v any, key string) (int32, error) {
	switch n := v.(type) {
	case int:
		return int32InRange(int64(n), key)
	case int32:
		return n, nil
	case int64:
		return int32InRange(n, key)
	case float64:
		if n != math.Trunc(n) {
			return 0, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must be an integer, got %v", key, n)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q is out of range, got %v", key, n)
		}
		return int32(n), nil
	default:
		return 0, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must be an integer, got %T", key, v)
	}
}

// int32InRange rejects values that would wrap on conversion to int32.
func int32InRange(n int64, key string) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q is out of range, got %d", key, n)
	}
	return int32(n), nil
}

func toStringMap(v any, key string) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q value for key %q must be a string, got %T", key, k, val)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, cpierrors.Newf(cpierrors.KindInvalidParameters, "parameter %q must be a string mapping, got %T", key, v)
	}
}
