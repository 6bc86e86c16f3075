package linkscan

import (
	"net/url"
	"strings"
)

// Normalize resolves raw against base into an absolute URL.
//
// The fragment is split off before resolution and reattached afterwards, so
// fragment-qualified references stay distinct from their fragment-free form.
// Percent-encoding is preserved exactly as authored and never decoded.
// Trailing slashes are stripped so that "/docs/" and "/docs" compare equal.
// If raw or base cannot be parsed, raw is returned unchanged.
func Normalize(raw, base string) string {
	ref := strings.TrimSpace(raw)

	var fragment string
	if idx := strings.Index(ref, "#"); idx != -1 {
		ref, fragment = ref[:idx], ref[idx+1:]
	}

	b, err := url.Parse(base)
	if err != nil {
		return raw
	}
	r, err := url.Parse(ref)
	if err != nil {
		return raw
	}

	resolved := b.ResolveReference(r)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	result := resolved.String()
	if fragment != "" {
		result += "#" + fragment
	}
	return strings.TrimRight(result, "/")
}

// Host returns the lower-cased host (with port) of rawURL.
// Relative URLs and unparseable input return an empty string.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// StripFragment returns rawURL without its fragment identifier. Pages are
// fetched without fragments, so the crawler queues the stripped form.
func StripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

// IsFetchable reports whether href uses a scheme that can be retrieved over
// the network. javascript:, mailto:, tel: and data: references are not.
func IsFetchable(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return !strings.HasPrefix(href, "javascript:") &&
		!strings.HasPrefix(href, "mailto:") &&
		!strings.HasPrefix(href, "tel:") &&
		!strings.HasPrefix(href, "data:")
}
