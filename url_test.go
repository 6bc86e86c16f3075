package linkscan_test

import (
	"testing"

	"github.com/fwojciec/linkscan"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{"relative path", "/about", "https://x.com/docs/intro", "https://x.com/about"},
		{"sibling path", "guide", "https://x.com/docs/intro", "https://x.com/docs/guide"},
		{"protocol relative", "//cdn.x.com/app.js", "https://x.com", "https://cdn.x.com/app.js"},
		{"absolute", "http://other.com/page", "https://x.com", "http://other.com/page"},
		{"fragment round trip", "/path#frag", "https://x.com", "https://x.com/path#frag"},
		{"fragment only", "#top", "https://x.com/page", "https://x.com/page#top"},
		{"preserves percent encoding", "/a%20b", "https://x.com", "https://x.com/a%20b"},
		{"preserves encoded slash", "/files/a%2Fb.pdf", "https://x.com", "https://x.com/files/a%2Fb.pdf"},
		{"preserves encoded query", "/search?q=a%26b", "https://x.com", "https://x.com/search?q=a%26b"},
		{"strips trailing slash", "/docs/", "https://x.com", "https://x.com/docs"},
		{"trims whitespace", "  /docs  ", "https://x.com", "https://x.com/docs"},
		{"root", "/", "https://x.com/docs", "https://x.com"},
		{"malformed reference", "http://[::1", "https://x.com", "http://[::1"},
		{"malformed escape", "/bad%zz", "https://x.com", "/bad%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, linkscan.Normalize(tt.raw, tt.base))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"/path#frag",
		"/a%20b/",
		"guide/",
		"https://x.com//",
		"/search?q=a%26b",
		"//cdn.x.com/lib.js",
	}
	base := "https://x.com/docs/"

	for _, raw := range inputs {
		once := linkscan.Normalize(raw, base)
		twice := linkscan.Normalize(once, base)
		assert.Equal(t, once, twice, "normalize(%q)", raw)
	}
}

func TestHost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x.com", linkscan.Host("https://X.com/path"))
	assert.Equal(t, "x.com:8080", linkscan.Host("http://x.com:8080/"))
	assert.Empty(t, linkscan.Host("/relative"))
	assert.Empty(t, linkscan.Host("http://[::1"))
}

func TestStripFragment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://x.com/a", linkscan.StripFragment("https://x.com/a#b"))
	assert.Equal(t, "https://x.com/a", linkscan.StripFragment("https://x.com/a#"))
	assert.Equal(t, "https://x.com/a?q=1", linkscan.StripFragment("https://x.com/a?q=1"))
}

func TestIsFetchable(t *testing.T) {
	t.Parallel()

	assert.True(t, linkscan.IsFetchable("https://x.com"))
	assert.True(t, linkscan.IsFetchable("/relative"))
	assert.False(t, linkscan.IsFetchable("javascript:void(0)"))
	assert.False(t, linkscan.IsFetchable(" MAILTO:me@x.com"))
	assert.False(t, linkscan.IsFetchable("tel:123"))
	assert.False(t, linkscan.IsFetchable("data:image/png;base64,AAAA"))
}
