package utils

import (
	"regexp"
)

// SurlExtractor pulls the short-URL identifier (surl) out of a Terabox share
// link using a prioritized list of patterns.
type SurlExtractor struct {
	patterns []*regexp.Regexp
}

// NewSurlExtractor creates a new extractor with the known Terabox link forms.
// Pattern order is significant: the first pattern that matches anywhere in the
// input wins and no further patterns are tried.
func NewSurlExtractor() *SurlExtractor {
	patterns := []*regexp.Regexp{
		// Standard share path: https://terabox.com/s/1AbC123
		regexp.MustCompile(`/s/([a-zA-Z0-9_-]+)`),

		// Query parameter form: https://terabox.com/sharing/link?surl=AbC123
		regexp.MustCompile(`surl=([a-zA-Z0-9_-]+)`),

		// Legacy wap form: https://terabox.com/wap/share/file?surl=AbC123
		regexp.MustCompile(`/wap/share/file\?surl=([a-zA-Z0-9_-]+)`),
	}

	return &SurlExtractor{
		patterns: patterns,
	}
}

// Extract returns the surl embedded in rawURL, or false if no pattern
// matches. Absence of an identifier is not an error; the caller decides how
// to surface it.
func (e *SurlExtractor) Extract(rawURL string) (string, bool) {
	for _, pattern := range e.patterns {
		matches := pattern.FindStringSubmatch(rawURL)
		if len(matches) > 1 {
			return matches[1], true
		}
	}
	return "", false
}
