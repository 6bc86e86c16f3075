package linkscan

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxAnchorText is the maximum number of characters kept from a
// reference's anchor text.
const MaxAnchorText = 100

// LinkType classifies a reference relative to the site being scanned.
type LinkType string

// Link types.
const (
	LinkTypeInternal LinkType = "internal"
	LinkTypeExternal LinkType = "external"
)

// Origin identifies the markup element and attribute a reference came from.
type Origin struct {
	Tag  string `json:"tag"`
	Attr string `json:"attribute"`
}

// TextOrigin marks references found in free text rather than in a tag attribute.
var TextOrigin = Origin{Tag: "text", Attr: "content"}

// IsText reports whether the origin is the free-text sentinel.
func (o Origin) IsText() bool {
	return o == TextOrigin
}

// String returns the origin as "tag[attr]".
func (o Origin) String() string {
	return o.Tag + "[" + o.Attr + "]"
}

// Reference is one outbound reference found on a page. Several references
// may share a URL when the same target appears on many pages.
type Reference struct {
	URL        string   `json:"url"`
	SourcePage string   `json:"sourcePage"`
	Origin     Origin   `json:"origin"`
	AnchorText string   `json:"text"`
	Type       LinkType `json:"linkType"`
}

// IsInternal reports whether the reference points inside the scanned site.
func (r Reference) IsInternal() bool {
	return r.Type == LinkTypeInternal
}

// ClassifyLink returns LinkTypeInternal if rawURL has no host or its host
// equals domain, and LinkTypeExternal otherwise. Unparseable URLs are external.
func ClassifyLink(rawURL, domain string) LinkType {
	u, err := url.Parse(rawURL)
	if err != nil {
		return LinkTypeExternal
	}
	if host := strings.ToLower(u.Host); host == "" || host == strings.ToLower(domain) {
		return LinkTypeInternal
	}
	return LinkTypeExternal
}

// TruncateText shortens s to at most MaxAnchorText characters.
func TruncateText(s string) string {
	if utf8.RuneCountInString(s) <= MaxAnchorText {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxAnchorText])
}

// ExtractError records a markup element whose value could not be processed
// cleanly. Unparseable values are still returned verbatim as references.
// Extraction continues past it.
type ExtractError struct {
	Origin Origin
	Raw    string
	Err    error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return e.Origin.String() + " " + e.Raw + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// ExtractResult holds the references found on one page along with the
// elements that failed to process.
type ExtractResult struct {
	References []Reference
	Errors     []*ExtractError
}

// LinkExtractor finds outbound references in a page's markup.
type LinkExtractor interface {
	// Extract returns every reference found in html, which was served at
	// pageURL. Failures on individual elements are reported in the result
	// and never abort extraction.
	Extract(pageURL, html string) *ExtractResult
}
