package internal

import (
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "jstoken_redacted",
			url:      "https://www.terabox.com/share/list?shorturl=abc&jsToken=secret123&web=1",
			expected: "https://www.terabox.com/share/list?shorturl=abc&jsToken=[REDACTED]&web=1",
		},
		{
			name:     "password_redacted",
			url:      "https://terabox.com/s/abc?pwd=1234",
			expected: "https://terabox.com/s/abc?pwd=[REDACTED]",
		},
		{
			name:     "plain_url_untouched",
			url:      "https://terabox.com/s/1AbC123",
			expected: "https://terabox.com/s/1AbC123",
		},
		{
			name:     "empty_input",
			url:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactURL(tt.url); got != tt.expected {
				t.Errorf("RedactURL(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}
