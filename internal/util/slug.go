package util

import (
	"strings"
	"unicode"
)

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single hyphen, producing a URL-safe handle.
func Slugify(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if (unicode.IsLetter(r) && r < unicode.MaxASCII) || ('0' <= r && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}
