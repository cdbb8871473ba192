package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// SitePolicy decides which links count as part of the crawled site.
type SitePolicy string

const (
	// PolicyOrigin requires the same scheme, host and port.
	PolicyOrigin SitePolicy = "origin"
	// PolicyHost requires the same host, ignoring scheme and a leading "www.".
	PolicyHost SitePolicy = "host"
	// PolicyDomain accepts any host under the same registrable domain.
	PolicyDomain SitePolicy = "domain"
)

// DefaultSitePolicy is used when no policy is configured.
const DefaultSitePolicy = PolicyHost

// ParseSitePolicy converts a config or flag value into a SitePolicy.
// An empty value yields DefaultSitePolicy.
func ParseSitePolicy(value string) (SitePolicy, error) {
	switch SitePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultSitePolicy, nil
	case PolicyOrigin:
		return PolicyOrigin, nil
	case PolicyHost:
		return PolicyHost, nil
	case PolicyDomain:
		return PolicyDomain, nil
	default:
		return "", fmt.Errorf("unknown same-site policy %q (want origin, host or domain)", value)
	}
}

// SiteMatcher applies a SitePolicy relative to a base URL.
type SiteMatcher struct {
	base   *url.URL
	policy SitePolicy
}

// NewSiteMatcher creates a matcher for base.
func NewSiteMatcher(base *url.URL, policy SitePolicy) *SiteMatcher {
	if policy == "" {
		policy = DefaultSitePolicy
	}

	return &SiteMatcher{base: base, policy: policy}
}

// Policy returns the active policy.
func (m *SiteMatcher) Policy() SitePolicy {
	return m.policy
}

// Match reports whether raw belongs to the same site as the base URL.
func (m *SiteMatcher) Match(raw string) bool {
	switch m.policy {
	case PolicyOrigin:
		return SameOrigin(m.base, raw)
	case PolicyDomain:
		return SameDomain(m.base, raw)
	default:
		return SameHost(m.base, raw)
	}
}
