package sim

import "fmt"

// Parameters is the experimental parameter (and result) mapping handed to a
// run. The kernel treats incoming parameters as read-only; results are a
// fresh Parameters written by the processes and the dynamics.
//
// Keys may be decorated with an instance name as "key@instance". A named
// process instance looks up the decorated key first and falls back to the
// bare key, so two instances of the same process type can hold independent
// values under decorated keys or share one value under the bare key.
type Parameters map[string]any

// Decorate qualifies key with an instance name. An empty instance leaves the
// key bare.
func Decorate(key, instance string) string {
	if instance == "" {
		return key
	}
	return key + "@" + instance
}

// lookup resolves key against an instance name: decorated first, then bare.
func (p Parameters) lookup(key, instance string) (any, bool) {
	if instance != "" {
		if v, ok := p[Decorate(key, instance)]; ok {
			return v, true
		}
	}
	v, ok := p[key]
	return v, ok
}

// Float resolves key for an instance and coerces it to float64. Integer
// values coerce; anything else is a configuration error.
func (p Parameters) Float(key, instance string) (float64, error) {
	v, ok := p.lookup(key, instance)
	if !ok {
		return 0, MissingParameter(Decorate(key, instance))
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("parameter %s: expected number, got %T", key, v)
	}
}

// Int resolves key for an instance and coerces it to int.
func (p Parameters) Int(key, instance string) (int, error) {
	v, ok := p.lookup(key, instance)
	if !ok {
		return 0, MissingParameter(Decorate(key, instance))
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("parameter %s: expected integer, got %T", key, v)
	}
}

// String resolves key for an instance as a string.
func (p Parameters) String(key, instance string) (string, error) {
	v, ok := p.lookup(key, instance)
	if !ok {
		return "", MissingParameter(Decorate(key, instance))
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s: expected string, got %T", key, v)
	}
	return s, nil
}

// FloatOr resolves key for an instance, returning def when absent.
func (p Parameters) FloatOr(key, instance string, def float64) float64 {
	if _, ok := p.lookup(key, instance); !ok {
		return def
	}
	f, err := p.Float(key, instance)
	if err != nil {
		return def
	}
	return f
}
