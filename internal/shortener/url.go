package shortener

import (
	"net/url"
	"strings"
)

// ValidateOriginalURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateOriginalURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ErrInvalidURL
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return ErrInvalidURL
	}

	if u.Host == "" || u.Hostname() == "" {
		return ErrInvalidURL
	}

	return nil
}

// ShortLink joins the public base URL and a code.
func ShortLink(baseURL string, code Code) string {
	return strings.TrimRight(baseURL, "/") + "/" + string(code)
}
