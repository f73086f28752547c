package engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// UserAgentBot identifies first-party API requests; scraped pages use
// RandomUserAgent instead.
const UserAgentBot = "GoTube/1.0"

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanHTML strips HTML tags, unescapes entities, and trims whitespace.
// Caption lines and comment snippets arrive with both tags and entities
// (`&#39;`, `<i>` etc).
func CleanHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
