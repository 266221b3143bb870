package classify

import (
	"regexp"
	"strings"
)

// MatchesDomain reports whether the address's domain matches any of the glob
// patterns. Patterns are anchored full-domain globs where * matches any
// sequence; comparison is case-insensitive. Addresses without an @ or with an
// empty domain never match, and an empty pattern list never matches.
func MatchesDomain(address string, patterns []string) bool {
	domain := domainOf(address)
	if domain == "" {
		return false
	}

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		re, err := compileGlob(strings.ToLower(pattern))
		if err != nil {
			continue
		}
		if re.MatchString(domain) {
			return true
		}
	}

	return false
}

func domainOf(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(address[at+1:])
}

// compileGlob converts a glob pattern into an anchored regular expression.
// Literal characters are escaped; * becomes .* and ? becomes a single
// character wildcard.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	escaped = strings.ReplaceAll(escaped, `\?`, ".")
	return regexp.Compile("^" + escaped + "$")
}
