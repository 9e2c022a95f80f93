// Package domain contains the core value types of gwd: normalized domain
// names, the hosts-file entries the tool owns, and the error taxonomy shared
// by every operation.
package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const (
	// RedirectAddr is the null address blocked domains are pointed at.
	RedirectAddr = "0.0.0.0"

	// MarkerComment tags every hosts-file line owned by gwd. Lines without
	// this exact marker are never touched.
	MarkerComment = "# Blocked by gwd"
)

// NormalizedDomain is a domain name in canonical comparable form: lowercase,
// no scheme prefix, no trailing slash. A "www." prefix is literal content and
// is preserved; block and unblock always act on the bare and "www." variants
// as a pair.
type NormalizedDomain string

func (d NormalizedDomain) String() string { return string(d) }

// WWW returns the "www."-prefixed counterpart of the domain.
func (d NormalizedDomain) WWW() NormalizedDomain {
	return "www." + d
}

// Normalize converts raw user input into a NormalizedDomain.
//
// Rules:
// - Strip an optional leading "http://" or "https://" (case-insensitive)
// - Strip at most one trailing "/"
// - Lowercase the remainder
// - Map non-ASCII names to punycode, best effort
//
// Any non-empty cleaned string is accepted; there is no DNS syntax check.
func Normalize(raw string) (NormalizedDomain, error) {
	cleaned := raw
	switch {
	case len(cleaned) >= 8 && strings.EqualFold(cleaned[:8], "https://"):
		cleaned = cleaned[8:]
	case len(cleaned) >= 7 && strings.EqualFold(cleaned[:7], "http://"):
		cleaned = cleaned[7:]
	}
	cleaned = strings.TrimSuffix(cleaned, "/")

	if cleaned == "" {
		return "", &InvalidDomainError{Input: raw}
	}

	if isASCII(cleaned) {
		return NormalizedDomain(lowerASCII(cleaned)), nil
	}

	cleaned = strings.ToLower(cleaned)

	// Non-ASCII: hosts files want punycode. Mapping failures keep the
	// cleaned string rather than rejecting it, matching the permissive
	// accept-anything contract.
	if ascii, err := idna.Lookup.ToASCII(cleaned); err == nil {
		cleaned = strings.ToLower(ascii)
	}
	return NormalizedDomain(cleaned), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// BlockEntry is one hosts-file line owned by gwd: the null redirect address,
// a normalized domain, and the fixed marker comment.
type BlockEntry struct {
	Domain NormalizedDomain
}

// Render returns the entry as a single hosts-file line, without a terminator.
func (e BlockEntry) Render() string {
	return RedirectAddr + " " + string(e.Domain) + " " + MarkerComment
}

// EntryPair returns the two entries written per block operation: one for the
// bare domain and one for its "www." variant.
func EntryPair(d NormalizedDomain) [2]BlockEntry {
	return [2]BlockEntry{{Domain: d}, {Domain: d.WWW()}}
}
