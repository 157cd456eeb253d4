package storage

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// NormalizeWebsiteURL canonicalizes a lead's website URL: lowercased host,
// https default scheme, default ports and trailing slashes stripped.
func NormalizeWebsiteURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.ToLower(s)
	}
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" && u.Port() == "80" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" && u.Port() == "443" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.Fragment = ""
	return u.String()
}

// WebsiteKey derives the duplicate-detection identity for a website: the
// registrable domain when the public suffix list can resolve one, otherwise
// the normalized host. "www." is never part of the identity, so
// https://www.joes-pizza.com/ and http://joes-pizza.com collide.
func WebsiteKey(s string) string {
	normalized := NormalizeWebsiteURL(s)
	u, err := url.Parse(normalized)
	if err != nil || u.Hostname() == "" {
		return normalized
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")

	domain, err := publicsuffix.Domain(host)
	if err != nil || domain == "" {
		return host
	}
	return domain
}
