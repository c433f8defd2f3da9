package provider

import (
	"fmt"
	"strconv"
)

// StringSetting reads a string setting, falling back when it is missing or blank.
func StringSetting(settings map[string]interface{}, key string, fallback string) string {
	if v, ok := settings[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// IntSetting reads an integer setting. YAML may decode numbers as int or
// float64 depending on how they were written; strings are parsed.
func IntSetting(settings map[string]interface{}, key string, fallback int) (int, error) {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("setting %s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("setting %s: unsupported type %T", key, raw)
	}
}

// FloatSetting reads a float setting.
func FloatSetting(settings map[string]interface{}, key string, fallback float64) (float64, error) {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("setting %s: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("setting %s: unsupported type %T", key, raw)
	}
}
