package normalizer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"phishtakedown/internal/models"
)

// Validation errors.
var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrNotAbsolute   = errors.New("url is not absolute http(s)")
	ErrMissingHost   = errors.New("url has no host")
	ErrIllegalChar   = errors.New("url contains whitespace or control characters")
	ErrHostNoDot     = errors.New("host has no domain separator")
	ErrHostBadSymbol = errors.New("host contains illegal characters")
)

// ErrorKind classifies a ValidationError.
type ErrorKind string

// KindInvalidURL is the only validation failure a Finding can have.
const KindInvalidURL ErrorKind = "invalid_url"

// ValidationError describes why a normalized URL was rejected.
type ValidationError struct {
	Err  error
	Kind ErrorKind
	URL  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Kind, e.URL, e.Err)
}

// Unwrap exposes both ErrInvalidURL and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidURL, e.Err}
}

// Validator builds Finding records from normalized URLs.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks n and returns the Finding for it, stamped with now.
// A blank source becomes models.UnknownSource.
func (v *Validator) Validate(n models.NormalizedURL, source string, now time.Time) (models.Finding, error) {
	if err := CheckURL(n.URL); err != nil {
		return models.Finding{}, &ValidationError{Kind: KindInvalidURL, URL: n.URL, Err: err}
	}

	return models.Finding{
		URL:          n.URL,
		DiscoveredAt: now.UTC(),
		Source:       cleanSource(source),
	}, nil
}

// CheckURL accepts raw only if net/url parses it as an absolute http(s) URL
// whose host is a dotted name, an IP literal, or localhost.
func CheckURL(raw string) error {
	for _, r := range raw {
		if r <= ' ' || r == 0x7f {
			return ErrIllegalChar
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrNotAbsolute
	}

	host := u.Hostname()
	if host == "" {
		return ErrMissingHost
	}

	if net.ParseIP(host) != nil || strings.EqualFold(host, "localhost") {
		return nil
	}

	if strings.ContainsAny(host, "!$&'()*+,;=%~") {
		return fmt.Errorf("%w: %s", ErrHostBadSymbol, host)
	}

	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	if len(labels) < 2 {
		return fmt.Errorf("%w: %s", ErrHostNoDot, host)
	}

	for _, l := range labels {
		if l == "" || strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return fmt.Errorf("%w: %s", ErrHostBadSymbol, host)
		}
	}

	return nil
}

func cleanSource(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.UnknownSource
	}

	return s
}
