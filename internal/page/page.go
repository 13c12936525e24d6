// Package page models a rendered document independently of any rendering
// host: a page is a URL, a referrer, a user agent, and a flat list of
// elements. The binder and the form prefill operate on this synthetic view,
// which keeps both testable against hand-built element lists.
package page

import "net/url"

// Element is one rendered element the tracker can inspect and mutate.
type Element struct {
	// Tag is the lower-case tag name, e.g. "a" or "input".
	Tag string
	// Attrs holds the element's attributes. Prefill writes the "value"
	// attribute in place.
	Attrs map[string]string
}

// NewElement creates an element with the given tag and attribute pairs.
func NewElement(tag string, attrPairs ...string) *Element {
	attrs := make(map[string]string, len(attrPairs)/2)
	for i := 0; i+1 < len(attrPairs); i += 2 {
		attrs[attrPairs[i]] = attrPairs[i+1]
	}
	return &Element{Tag: tag, Attrs: attrs}
}

// Attr returns the attribute value and whether the attribute is present.
// Presence matters: a marker attribute with an empty value still counts.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Page is a host-independent snapshot of a rendered document.
type Page struct {
	// Location is the current page URL.
	Location *url.URL
	// Referrer is the document referrer, or "" for direct visits.
	Referrer string
	// UserAgent is the browser user-agent string.
	UserAgent string
	// Elements are the page's elements in document order.
	Elements []*Element
}
