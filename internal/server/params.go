package server

import (
	"fmt"
	"math"
	"strings"

	"github.com/mj1618/a11y-bridge/internal/registry"
)

// Parameter extraction helpers for tool arguments. JSON numbers arrive
// as float64; YAML-sourced arguments may be ints.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func floatParam(params map[string]interface{}, key string) (float64, bool) {
	switch n := params[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// listParam splits a comma-separated argument, dropping empty items.
func listParam(params map[string]interface{}, key string) []string {
	var out []string
	for _, part := range strings.Split(stringParam(params, key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// handleParam reads a registry handle; ok is false when it is absent.
func handleParam(params map[string]interface{}, key string) (h registry.Handle, ok bool, err error) {
	if _, present := params[key]; !present {
		return 0, false, nil
	}
	n := intParam(params, key, -1)
	if n <= 0 || uint64(n) > math.MaxUint32 {
		return 0, false, fmt.Errorf("invalid %s: %v", key, params[key])
	}
	return registry.Handle(n), true, nil
}
