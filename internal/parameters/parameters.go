// Package parameters parses the comma-separated "key=value" configuration
// strings the binaries take on the command line, like
// --players="first=Ada,second=Grace". Values are fetched with typed generic
// getters; a key without a value reads as the empty string, or as true when
// fetched as a bool.
package parameters

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Params holds the parsed key/value pairs of one configuration string.
type Params map[string]string

// Parse splits a configuration string into Params. Empty parts are ignored,
// so trailing commas are harmless.
func Parse(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		params[key] = value
	}
	return params
}

// PopOr returns the value of key parsed as T, or defaultValue when the key is
// absent, and removes the key from params. Popping every known key and then
// calling CheckExhausted catches misspelled keys.
func PopOr[T interface {
	bool | int | float64 | string
}](params Params, key string, defaultValue T) (T, error) {
	value, err := GetOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetOr returns the value of key parsed as T, or defaultValue when the key is
// absent.
func GetOr[T interface {
	bool | int | float64 | string
}](params Params, key string, defaultValue T) (T, error) {
	raw, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case string:
		parsed = raw
	case int:
		if raw == "" {
			return defaultValue, nil
		}
		parsed, err = strconv.Atoi(raw)
	case float64:
		if raw == "" {
			return defaultValue, nil
		}
		parsed, err = strconv.ParseFloat(raw, 64)
	case bool:
		// A bare key means true: --players="...,hints".
		if raw == "" {
			parsed = true
		} else {
			parsed, err = strconv.ParseBool(strings.ToLower(raw))
		}
	}
	if err != nil {
		return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q", key, raw)
	}
	return parsed.(T), nil
}

// CheckExhausted returns an error naming the keys left in params, or nil when
// every key was popped. It is how the binaries reject unknown configuration.
func CheckExhausted(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	return errors.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
}
