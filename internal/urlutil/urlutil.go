package urlutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrUnsupportedScheme is returned for URLs other than http and https.
var ErrUnsupportedScheme = errors.New("unsupported scheme")

// ParseAbsolute parses raw as an absolute HTTP(S) URL and normalizes it.
func ParseAbsolute(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("missing scheme or host")
	}

	if !isHTTPScheme(strings.ToLower(parsed.Scheme)) {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, parsed.Scheme)
	}

	Normalize(parsed)

	return parsed, nil
}

// Resolve resolves href against base and returns a normalized absolute HTTP(S) URL.
func Resolve(base *url.URL, href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	if !isSupportedScheme(strings.ToLower(parsed.Scheme)) {
		return "", false
	}

	resolved := resolveReference(base, parsed)
	if !isHTTPScheme(strings.ToLower(resolved.Scheme)) || resolved.Host == "" {
		return "", false
	}

	Normalize(resolved)

	return resolved.String(), true
}

// Normalize canonicalizes u in place: no fragment, lower-case scheme and host,
// no default port, and "/" for an empty path.
func Normalize(u *url.URL) {
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	port := u.Port()

	switch {
	case u.Scheme == "http" && port == "80":
		port = ""
	case u.Scheme == "https" && port == "443":
		port = ""
	}

	if port == "" {
		if strings.Contains(host, ":") {
			u.Host = "[" + host + "]"
		} else {
			u.Host = host
		}
	} else {
		u.Host = net.JoinHostPort(host, port)
	}

	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}

	if u.RawQuery == "" {
		u.ForceQuery = false
	}
}

func isSupportedScheme(scheme string) bool {
	return scheme == "" || isHTTPScheme(scheme)
}

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

func resolveReference(base *url.URL, parsed *url.URL) *url.URL {
	if parsed.Scheme == "" {
		return base.ResolveReference(parsed)
	}

	return parsed
}

// SameOrigin reports whether the URL has the same scheme and host (including port) as base.
func SameOrigin(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return strings.EqualFold(parsed.Scheme, base.Scheme) && strings.EqualFold(parsed.Host, base.Host)
}

// SameHost reports whether raw points at the same host as base, ignoring scheme and a leading "www.".
func SameHost(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}

	return stripWWW(parsed.Host) == stripWWW(base.Host)
}

// SameDomain reports whether raw shares the registrable domain (eTLD+1) of base.
func SameDomain(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}

	return RegistrableDomain(parsed.Hostname()) == RegistrableDomain(base.Hostname())
}

// RegistrableDomain returns the eTLD+1 of host. IP addresses and hosts without a
// public suffix are returned unchanged.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}

	if net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}

	return domain
}

// DomainName returns the hostname of u without a leading "www.".
func DomainName(u *url.URL) string {
	return stripWWW(u.Hostname())
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
