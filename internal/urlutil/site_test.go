package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSitePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    SitePolicy
		wantErr bool
	}{
		{value: "", want: PolicyHost},
		{value: "origin", want: PolicyOrigin},
		{value: " Host ", want: PolicyHost},
		{value: "DOMAIN", want: PolicyDomain},
		{value: "subdomain", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSitePolicy(tt.value)
		if tt.wantErr {
			require.Error(t, err, tt.value)

			continue
		}

		require.NoError(t, err, tt.value)
		require.Equal(t, tt.want, got)
	}
}

func TestSiteMatcher(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.example.com/")
	require.NoError(t, err)

	link := "http://blog.example.com/post"

	require.False(t, NewSiteMatcher(base, PolicyOrigin).Match(link))
	require.False(t, NewSiteMatcher(base, PolicyHost).Match(link))
	require.True(t, NewSiteMatcher(base, PolicyDomain).Match(link))

	matcher := NewSiteMatcher(base, "")
	require.Equal(t, DefaultSitePolicy, matcher.Policy())
	require.True(t, matcher.Match("http://example.com/about"))
}
