// Package goquery extracts outbound references from HTML using goquery.
package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linkscan"
	"golang.org/x/net/html"
)

// Catalogue lists the element/attribute pairs that carry references,
// in the order they are scanned.
var Catalogue = []linkscan.Origin{
	{Tag: "a", Attr: "href"},
	{Tag: "link", Attr: "href"},
	{Tag: "img", Attr: "src"},
	{Tag: "script", Attr: "src"},
	{Tag: "iframe", Attr: "src"},
	{Tag: "frame", Attr: "src"},
	{Tag: "embed", Attr: "src"},
	{Tag: "object", Attr: "data"},
	{Tag: "source", Attr: "src"},
	{Tag: "video", Attr: "src"},
	{Tag: "audio", Attr: "src"},
	{Tag: "form", Attr: "action"},
	{Tag: "area", Attr: "href"},
	{Tag: "base", Attr: "href"},
}

// TextURLPattern matches bare http(s) URLs in prose. It admits percent
// escapes and parenthesized segments, and stops before trailing sentence
// punctuation, bracket or quote delimiters, and any Unicode space such as
// a decoded &nbsp;.
var TextURLPattern = regexp.MustCompile(
	`(?i)https?://[^\s\p{Z}<>"{}|\\^` + "`" + `\[\]()]+(?:\([^\s\p{Z})]*\))*[^\s\p{Z}<>"{}|\\^` + "`" + `\[\]().,;:!?]`,
)

// textSkip lists elements whose text content is not prose.
const textSkip = "script, style, noscript, template"

// Ensure Extractor implements linkscan.LinkExtractor.
var _ linkscan.LinkExtractor = (*Extractor)(nil)

// Extractor finds references in tag attributes and in free text.
type Extractor struct {
	domain string
}

// NewExtractor creates an Extractor that classifies references against
// domain, the host of the site being scanned.
func NewExtractor(domain string) *Extractor {
	return &Extractor{domain: strings.ToLower(domain)}
}

// Extract returns the references found in markup served at pageURL.
//
// Tag references are collected first, in catalogue order. Free-text URLs
// that duplicate an already collected URL are dropped. References that
// resolve to the page itself are never returned.
func (e *Extractor) Extract(pageURL, markup string) *linkscan.ExtractResult {
	result := &linkscan.ExtractResult{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		result.Errors = append(result.Errors, &linkscan.ExtractError{
			Origin: linkscan.Origin{Tag: "document"},
			Raw:    pageURL,
			Err:    fmt.Errorf("parse HTML: %w", err),
		})
		return result
	}

	self := linkscan.Normalize(pageURL, pageURL)
	seen := make(map[string]bool)

	for _, origin := range Catalogue {
		doc.Find(origin.Tag + "[" + origin.Attr + "]").Each(func(_ int, sel *goquery.Selection) {
			raw, _ := sel.Attr(origin.Attr)
			ref, err := e.reference(pageURL, self, raw, origin, func() string {
				return strings.TrimSpace(sel.Text())
			})
			if err != nil {
				result.Errors = append(result.Errors, err)
			}
			if ref == nil {
				return
			}
			seen[ref.URL] = true
			result.References = append(result.References, *ref)
		})
	}

	doc.Find("*").Not(textSkip).Contents().Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if node == nil || node.Type != html.TextNode {
			return
		}
		for _, match := range TextURLPattern.FindAllString(node.Data, -1) {
			ref, err := e.reference(pageURL, self, match, linkscan.TextOrigin, func() string {
				return match
			})
			if err != nil {
				result.Errors = append(result.Errors, err)
			}
			if ref == nil || seen[ref.URL] {
				continue
			}
			seen[ref.URL] = true
			result.References = append(result.References, *ref)
		}
	})

	return result
}

// reference builds a Reference for one raw value. It returns nil without
// an error when the value is empty, not fetchable, or points at the page
// itself. A value that does not parse as a URL is kept verbatim and also
// reported as an error. A panic while processing the element is reported
// as an error with no reference.
func (e *Extractor) reference(pageURL, self, raw string, origin linkscan.Origin, text func() string) (ref *linkscan.Reference, xerr *linkscan.ExtractError) {
	defer func() {
		if r := recover(); r != nil {
			ref = nil
			xerr = &linkscan.ExtractError{Origin: origin, Raw: raw, Err: fmt.Errorf("%v", r)}
		}
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" || !linkscan.IsFetchable(raw) {
		return nil, nil
	}

	normalized := linkscan.Normalize(raw, pageURL)
	if normalized == "" || normalized == self {
		return nil, nil
	}

	ref = &linkscan.Reference{
		URL:        normalized,
		SourcePage: pageURL,
		Origin:     origin,
		AnchorText: linkscan.TruncateText(text()),
		Type:       linkscan.ClassifyLink(normalized, e.domain),
	}
	if _, err := url.Parse(raw); err != nil {
		return ref, &linkscan.ExtractError{Origin: origin, Raw: raw, Err: fmt.Errorf("normalize: %w", err)}
	}
	return ref, nil
}
