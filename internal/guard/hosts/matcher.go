package hosts

import (
	"fmt"
	"regexp"
	"strings"

	"gwd/internal/guard/domain"
)

// ownedLinePattern recognizes any line written by gwd, regardless of domain:
// null address, a single hostname, then the exact marker comment. Used by the
// read-only listing path.
var ownedLinePattern = regexp.MustCompile(
	`^\s*` + regexp.QuoteMeta(domain.RedirectAddr) + `\s+(\S+)\s+` + regexp.QuoteMeta(domain.MarkerComment) + `\s*$`,
)

// Matcher holds the per-domain line predicates for one operation. A line
// matches only when it consists of optional whitespace, the null redirect
// address, whitespace, the exact domain variant, then optional whitespace and
// an optional '#' comment. The domain text is metacharacter-escaped, so
// "example.com.evil.org" can never match the matcher for "example.com".
type Matcher struct {
	bare   *regexp.Regexp
	www    *regexp.Regexp
	either *regexp.Regexp
}

// NewMatcher compiles the predicates for the given normalized domain and its
// "www." variant. The patterns live for a single operation only.
func NewMatcher(d domain.NormalizedDomain) (*Matcher, error) {
	addr := regexp.QuoteMeta(domain.RedirectAddr)
	bare := regexp.QuoteMeta(string(d))
	www := regexp.QuoteMeta(string(d.WWW()))

	compile := func(expr string) (*regexp.Regexp, error) {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile block-entry pattern: %w", err)
		}
		return re, nil
	}

	var (
		m   Matcher
		err error
	)
	if m.bare, err = compile(`^\s*` + addr + `\s+` + bare + `\s*(?:#.*)?$`); err != nil {
		return nil, err
	}
	if m.www, err = compile(`^\s*` + addr + `\s+` + www + `\s*(?:#.*)?$`); err != nil {
		return nil, err
	}
	if m.either, err = compile(`^\s*` + addr + `\s+(?:` + bare + `|` + www + `)\s*(?:#.*)?$`); err != nil {
		return nil, err
	}
	return &m, nil
}

// MatchesBare reports whether line is an existing block entry for the bare domain.
func (m *Matcher) MatchesBare(line string) bool { return m.bare.MatchString(line) }

// MatchesWWW reports whether line is an existing block entry for the www variant.
func (m *Matcher) MatchesWWW(line string) bool { return m.www.MatchString(line) }

// MatchesEither reports whether line is a block entry for either variant.
// Used only by the removal path.
func (m *Matcher) MatchesEither(line string) bool { return m.either.MatchString(line) }

// ParseOwnedLine extracts the domain from a gwd-owned hosts line. It returns
// false for every line not written by this tool.
func ParseOwnedLine(line string) (string, bool) {
	match := ownedLinePattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if match == nil {
		return "", false
	}
	return match[1], true
}
