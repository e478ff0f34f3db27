package kid

import "strings"

// NormalizeSlug lowercases the input and strips every character outside
// [a-z0-9]. Idempotent by construction.
func NormalizeSlug(input string) string {
	input = strings.ToLower(input)

	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// NormalizeSlugQuery is the lookup-side variant: interior dashes survive so
// auto-suffixed slugs like "alex-1" stay queryable. Leading and trailing
// dashes are trimmed.
func NormalizeSlugQuery(input string) string {
	input = strings.ToLower(input)

	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			builder.WriteRune(r)
		}
	}
	return strings.Trim(builder.String(), "-")
}
