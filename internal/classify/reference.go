package classify

import (
	"regexp"
	"strings"
)

// Romanian court file numbers take the shape number/section/year, e.g.
// "1234/3/2024", frequently prefixed with "dosar nr." in correspondence.
// The prefix is noise; only the numeric shape is captured.
var courtFileRe = regexp.MustCompile(`\b\d+\s*/\s*\d+\s*/\s*\d{4}\b`)

// ExtractReferences pulls structured identifiers out of free text. It is pure
// and deterministic: results are ordered by position of first occurrence and
// deduplicated by normalized value, first occurrence winning. Malformed text
// simply yields no matches; extraction never fails.
func ExtractReferences(text string) []Reference {
	refs := make([]Reference, 0)
	if text == "" {
		return refs
	}

	seen := make(map[string]struct{})
	for _, loc := range courtFileRe.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		normalized := NormalizeReference(raw)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		refs = append(refs, Reference{
			Type:       "court_file",
			RawValue:   raw,
			Normalized: normalized,
			Position:   loc[0],
		})
	}

	return refs
}

// NormalizeReference strips all whitespace and upper-cases a reference string
// so that "1234 / 3 / 2024" and "1234/3/2024" compare equal.
func NormalizeReference(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
