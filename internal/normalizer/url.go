// Package normalizer turns raw feed rows into validated, deduplicated findings.
package normalizer

import (
	"errors"
	"strings"

	"phishtakedown/internal/models"
)

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// ErrEmptyURL is returned when the raw URL is blank after trimming.
var ErrEmptyURL = errors.New("empty url")

// Normalize trims raw and qualifies it with https:// unless it already starts
// with http:// or https://. The result is not guaranteed to parse.
func Normalize(raw string) (models.NormalizedURL, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return models.NormalizedURL{}, ErrEmptyURL
	}

	if !strings.HasPrefix(u, schemeHTTP) && !strings.HasPrefix(u, schemeHTTPS) {
		u = schemeHTTPS + u
	}

	return models.NormalizedURL{
		URL:         u,
		Fingerprint: Fingerprint(u),
	}, nil
}

// Fingerprint derives the coarse, case-insensitive site key of a URL: scheme
// markers removed, everything from the first slash dropped, lower-cased.
// Ports, userinfo and IDNA are left as-is.
func Fingerprint(u string) string {
	u = strings.ReplaceAll(u, schemeHTTP, "")
	u = strings.ReplaceAll(u, schemeHTTPS, "")

	host, _, _ := strings.Cut(u, "/")

	return strings.ToLower(host)
}

// StripScheme removes a leading http:// or https:// from u.
func StripScheme(u string) string {
	if rest, ok := strings.CutPrefix(u, schemeHTTPS); ok {
		return rest
	}

	rest, _ := strings.CutPrefix(u, schemeHTTP)

	return rest
}
