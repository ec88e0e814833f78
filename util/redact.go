package util

import "strings"

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}

// RedactQuery masks the values of the named query parameters in rawURL.
// Parameter order and all other parameters are kept as given.
func RedactQuery(rawURL string, keys ...string) string {
	base, query, ok := strings.Cut(rawURL, "?")
	if !ok || query == "" || len(keys) == 0 {
		return rawURL
	}
	query, fragment, hasFragment := strings.Cut(query, "#")

	params := strings.Split(query, "&")
	for i, p := range params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || value == "" || !StringInSlice(name, keys) {
			continue
		}
		params[i] = name + "=" + MaskSecret(value, 4)
	}

	out := base + "?" + strings.Join(params, "&")
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// StringInSlice checks if a string exists in a slice.
func StringInSlice(s string, list []string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
