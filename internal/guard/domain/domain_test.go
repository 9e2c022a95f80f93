package domain

import (
	"errors"
	"testing"
)

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want NormalizedDomain
	}{
		{"plain", "example.com", "example.com"},
		{"http scheme", "http://example.com", "example.com"},
		{"https scheme", "https://example.com", "example.com"},
		{"uppercase scheme", "HTTPS://example.com", "example.com"},
		{"mixed case scheme", "HtTp://example.com", "example.com"},
		{"trailing slash", "example.com/", "example.com"},
		{"scheme and slash", "https://example.com/", "example.com"},
		{"mixed case host", "HTTPS://Example.Com/", "example.com"},
		{"www preserved", "www.example.com", "www.example.com"},
		{"www with scheme", "http://www.example.com", "www.example.com"},
		{"arbitrary hostname accepted", "not a real domain", "not a real domain"},
		{"unicode mapped to punycode", "bücher.de", "xn--bcher-kva.de"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

// Stripping a scheme and a trailing slash must yield the same result as
// normalizing the bare input.
func TestNormalize_SchemeVariantsAgree(t *testing.T) {
	base := "Example.com"
	want, err := Normalize(base)
	if err != nil {
		t.Fatalf("Normalize(%q) returned error: %v", base, err)
	}
	for _, variant := range []string{
		"http://" + base,
		"https://" + base,
		"HTTPS://" + base,
		base + "/",
		"https://" + base + "/",
	} {
		got, err := Normalize(variant)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", variant, err)
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", variant, got, want)
		}
	}
}

func TestNormalize_WWWIsDistinct(t *testing.T) {
	bare, err := Normalize("example.com")
	if err != nil {
		t.Fatal(err)
	}
	www, err := Normalize("www.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if bare == www {
		t.Errorf("bare and www normalizations should differ, both = %q", bare)
	}
	if bare.WWW() != www {
		t.Errorf("WWW() = %q, want %q", bare.WWW(), www)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	for _, raw := range []string{"", "http://", "https://", "/", "HTTP://", "http:///"} {
		t.Run("input "+raw, func(t *testing.T) {
			_, err := Normalize(raw)
			if err == nil {
				t.Fatalf("Normalize(%q) should fail", raw)
			}
			var invalid *InvalidDomainError
			if !errors.As(err, &invalid) {
				t.Errorf("Normalize(%q) error = %T, want *InvalidDomainError", raw, err)
			}
			if invalid.Input != raw {
				t.Errorf("error carries input %q, want %q", invalid.Input, raw)
			}
		})
	}
}

func TestBlockEntry_Render(t *testing.T) {
	e := BlockEntry{Domain: "example.com"}
	want := "0.0.0.0 example.com # Blocked by gwd"
	if got := e.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestEntryPair(t *testing.T) {
	pair := EntryPair("example.com")
	if pair[0].Domain != "example.com" {
		t.Errorf("first entry = %q, want bare domain", pair[0].Domain)
	}
	if pair[1].Domain != "www.example.com" {
		t.Errorf("second entry = %q, want www variant", pair[1].Domain)
	}
}
