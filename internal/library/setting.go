package library

import (
	"errors"
	"fmt"
)

// Setting is a primitive key/value pair persisted across sessions.
// Value holds a string, a bool or a float64.
type Setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// ErrUnsupportedSettingValue reports a non-primitive setting value.
var ErrUnsupportedSettingValue = errors.New("setting value must be a string, number or bool")

// NewSetting validates value and normalizes numbers to float64 so values
// compare equal after a round trip through JSON.
func NewSetting(key string, value any) (Setting, error) {
	if key == "" {
		return Setting{}, errors.New("setting key is required")
	}
	normalized, err := normalizeSettingValue(value)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Key: key, Value: normalized}, nil
}

func normalizeSettingValue(value any) (any, error) {
	switch v := value.(type) {
	case string, bool, float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrUnsupportedSettingValue, value)
	}
}

// AsString returns the value when it is a string.
func (s Setting) AsString() (string, bool) {
	v, ok := s.Value.(string)
	return v, ok
}

// AsBool returns the value when it is a bool.
func (s Setting) AsBool() (bool, bool) {
	v, ok := s.Value.(bool)
	return v, ok
}

// AsNumber returns the value when it is numeric.
func (s Setting) AsNumber() (float64, bool) {
	v, ok := s.Value.(float64)
	return v, ok
}
