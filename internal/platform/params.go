package platform

// Params helpers read optional values from the free-form params map that
// connection and device configs carry. YAML unmarshals numbers as int and
// occasionally float64, so the int helper accepts both.

// StringParam returns params[key] as a string, or fallback.
func StringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return fallback
}

// IntParam returns params[key] as an int, or fallback.
func IntParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// BoolParam returns params[key] as a bool, or fallback.
func BoolParam(params map[string]any, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}
