package models

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

// AllDomains opts every site in and excludes any specific pattern.
const AllDomains = "*"

var (
	ErrEmptyPattern     = errors.New("please enter a website")
	ErrDuplicatePattern = errors.New("website already in list")
)

func NormalizeDomainPattern(raw string) string {
	p := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(p, "://"); i >= 0 {
		p = p[i+3:]
	}
	p = strings.TrimPrefix(p, "www.")
	return strings.TrimSuffix(p, "/")
}

// NormalizeDomainPatterns cleans a whole list: duplicates and blanks drop out,
// "*" wins over anything else, and an empty result means every domain.
func NormalizeDomainPatterns(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		p := NormalizeDomainPattern(r)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		if p == AllDomains {
			return []string{AllDomains}
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{AllDomains}
	}
	return out
}

func AddDomainPattern(patterns []string, raw string) ([]string, error) {
	p := NormalizeDomainPattern(raw)
	if p == "" {
		return patterns, ErrEmptyPattern
	}
	if slices.Contains(patterns, p) {
		return patterns, ErrDuplicatePattern
	}
	if p == AllDomains {
		return []string{AllDomains}, nil
	}
	out := make([]string, 0, len(patterns)+1)
	for _, existing := range patterns {
		if existing != AllDomains {
			out = append(out, existing)
		}
	}
	return append(out, p), nil
}

func RemoveDomainPattern(patterns []string, raw string) []string {
	p := NormalizeDomainPattern(raw)
	out := make([]string, 0, len(patterns))
	for _, existing := range patterns {
		if existing != p {
			out = append(out, existing)
		}
	}
	return out
}

// Hostname extracts the lower-cased host of a page URL; scheme-less input
// such as "example.com/path" is accepted.
func Hostname(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		u, err = url.Parse("http://" + s)
		if err != nil {
			return ""
		}
	}
	return strings.ToLower(u.Hostname())
}

func MatchDomain(rawURL string, patterns []string) bool {
	if slices.Contains(patterns, AllDomains) {
		return true
	}
	host := Hostname(rawURL)
	if host == "" {
		return false
	}
	for _, raw := range patterns {
		p := NormalizeDomainPattern(raw)
		if p == AllDomains {
			return true
		}
		if p != "" && strings.Contains(host, p) {
			return true
		}
	}
	return false
}
