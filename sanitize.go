package siteengine

import "github.com/microcosm-cc/bluemonday"

// contentPolicy sanitizes post and project HTML on write. UGC plus the
// image/figure elements the editor produces.
var contentPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("pre", "code", "figure", "figcaption")
	p.AllowAttrs("loading").OnElements("img")
	return p
}()

// strictPolicy strips all markup; used for excerpts and meta fields.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeContent cleans rich HTML content for storage.
func SanitizeContent(html string) string {
	return contentPolicy.Sanitize(html)
}

// SanitizeText strips every tag from a plain-text field.
func SanitizeText(s string) string {
	return strictPolicy.Sanitize(s)
}
