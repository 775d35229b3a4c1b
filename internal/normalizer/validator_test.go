package normalizer

import (
	"errors"
	"testing"
	"time"

	"phishtakedown/internal/models"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	n, _ := Normalize("example.com")

	f, err := v.Validate(n, "  feedA ", now)
	if err != nil {
		t.Fatalf("Validate returned unexpected error: %v", err)
	}

	if f.URL != "https://example.com" {
		t.Errorf("URL = %q, want https://example.com", f.URL)
	}

	if f.Source != "feedA" {
		t.Errorf("Source = %q, want feedA", f.Source)
	}

	if !f.DiscoveredAt.Equal(now) || f.DiscoveredAt.Location() != time.UTC {
		t.Errorf("DiscoveredAt = %v, want %v in UTC", f.DiscoveredAt, now.UTC())
	}

	if f.RiskScore != nil {
		t.Errorf("RiskScore = %v, want nil", *f.RiskScore)
	}
}

func TestValidator_Validate_BlankSource(t *testing.T) {
	v := NewValidator()
	n, _ := Normalize("https://evil.test/pay")

	for _, src := range []string{"", "   ", "\t"} {
		f, err := v.Validate(n, src, time.Now())
		if err != nil {
			t.Fatalf("Validate error = %v", err)
		}

		if f.Source != models.UnknownSource {
			t.Errorf("Source(%q) = %q, want %q", src, f.Source, models.UnknownSource)
		}
	}
}

func TestValidator_Validate_Errors(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "Spaces and punctuation", raw: "not a url !!", wantErr: ErrIllegalChar},
		{name: "No dot in host", raw: "intranet", wantErr: ErrHostNoDot},
		{name: "Empty host", raw: "https:///path", wantErr: ErrMissingHost},
		{name: "Bad host symbol", raw: "exa$mple.com", wantErr: ErrHostBadSymbol},
		{name: "Leading hyphen label", raw: "-bad.com", wantErr: ErrHostBadSymbol},
		{name: "Empty label", raw: "bad..com", wantErr: ErrHostBadSymbol},
		{name: "Control character", raw: "exa\x01mple.com", wantErr: ErrIllegalChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize error = %v", err)
			}

			_, err = v.Validate(n, "src", time.Now())
			if err == nil {
				t.Fatal("Validate expected error but got nil")
			}

			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("error = %v, want ErrInvalidURL", err)
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Kind != KindInvalidURL {
				t.Errorf("error = %#v, want *ValidationError with KindInvalidURL", err)
			}
		})
	}
}

func TestCheckURL_Accepts(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/a/b?c=d#e",
		"https://sub.domain.co.uk:8443/x",
		"https://user:pw@example.com/",
		"https://127.0.0.1/admin",
		"https://[::1]:8080/",
		"https://localhost/login",
		"https://xn--80ak6aa92e.com",
		"https://my_host.example.com",
	}

	for _, u := range valid {
		if err := CheckURL(u); err != nil {
			t.Errorf("CheckURL(%q) = %v, want nil", u, err)
		}
	}
}

func TestCheckURL_RejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"ftp://example.com", "mailto:a@example.com", "/relative/path"} {
		if err := CheckURL(u); !errors.Is(err, ErrNotAbsolute) {
			t.Errorf("CheckURL(%q) = %v, want ErrNotAbsolute", u, err)
		}
	}
}
