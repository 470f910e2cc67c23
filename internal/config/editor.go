package config

import "strings"

// entryKey returns the key of an rc line, or "" for blanks, comments and junk.
func entryKey(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	key, _, ok := strings.Cut(trimmed, "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(key)
}

// Set rewrites the first line holding key, keeping a trailing " # comment".
// The pair is appended when the key is absent; the bool reports an in-place update.
func Set(lines []string, key, value string) ([]string, bool) {
	for i, line := range lines {
		if entryKey(line) != key {
			continue
		}

		entry := key + "=" + value
		_, old, _ := strings.Cut(line, "=")
		if idx := strings.Index(old, " #"); idx >= 0 {
			entry += " " + strings.TrimSpace(old[idx:])
		}
		lines[i] = entry
		return lines, true
	}

	return append(lines, key+"="+value), false
}

// Unset drops every line holding key and reports whether one was removed.
func Unset(lines []string, key string) ([]string, bool) {
	var kept []string
	removed := false

	for _, line := range lines {
		if entryKey(line) == key {
			removed = true
			continue
		}
		kept = append(kept, line)
	}

	return kept, removed
}
