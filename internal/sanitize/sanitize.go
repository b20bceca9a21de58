// Package sanitize strips script tags and surrounding whitespace from
// user-supplied strings before they are persisted.
package sanitize

import (
	"regexp"
	"strings"
)

var scriptTag = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)

func String(s string) string {
	return strings.TrimSpace(scriptTag.ReplaceAllString(s, ""))
}

// Tags normalizes a tag input that may arrive either as a comma-separated
// string or as a JSON array. Each tag is sanitized and trimmed; empty
// entries are dropped. Order is preserved.
func Tags(v any) []string {
	switch tags := v.(type) {
	case nil:
		return []string{}
	case string:
		return splitTags(tags)
	case []string:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s := String(t); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				if clean := String(s); clean != "" {
					out = append(out, clean)
				}
			}
		}
		return out
	default:
		return []string{}
	}
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if clean := String(p); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
