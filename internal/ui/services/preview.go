package services

import (
	"fmt"
	"sort"
	"strings"
)

// FormatToolCall renders a tool call as name(key="value", ...), keys sorted.
func FormatToolCall(name string, args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := args[k].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s=%q", k, v))
		case float64:
			parts = append(parts, fmt.Sprintf("%s=%g", k, v))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// Preview cuts s down to at most limit runes, marking the cut with "...".
func Preview(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// FormatToolResult is the chat entry for a finished tool call.
func FormatToolResult(call, result string, failed bool, limit int) string {
	marker := "→"
	if failed {
		marker = "✗"
	}
	return fmt.Sprintf("🔧 %s\n%s %s", call, marker, Preview(result, limit))
}
