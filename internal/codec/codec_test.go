package codec

import (
	"errors"
	"testing"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
)

func TestCodec_RoundTrip(t *testing.T) {
	locators := []string{
		"/download/abc",
		"/subtitles/download/2c4b2e8a-6f39-4f0a-8f4a-3f5e0ad2a1b9",
		"/updated/1/123456/0",
		"relative/path/file.srt",
		"no-separator",
		"",
	}
	languages := []string{"en", "eng", "fr", "pt"}

	for _, c := range []struct {
		name  string
		codec Codec
	}{{"escaped", Escaped}, {"plain", Plain}} {
		for _, locator := range locators {
			for _, lang := range languages {
				token, err := c.codec.Encode(locator, lang)
				if err != nil {
					t.Fatalf("%s: Encode(%q, %q) failed: %v", c.name, locator, lang, err)
				}

				gotLocator, gotLang, err := c.codec.Decode(token)
				if err != nil {
					t.Fatalf("%s: Decode(%q) failed: %v", c.name, token, err)
				}
				if gotLocator != locator || gotLang != lang {
					t.Errorf("%s: round trip of (%q, %q) = (%q, %q)", c.name, locator, lang, gotLocator, gotLang)
				}
			}
		}
	}
}

func TestCodec_EncodeFormat(t *testing.T) {
	tests := []struct {
		name    string
		codec   Codec
		locator string
		lang    string
		want    string
	}{
		{"escaped replaces separators", Escaped, "/download/abc", "en", ",download,abc:en"},
		{"plain keeps separators", Plain, "/updated/1/42/0", "eng", "/updated/1/42/0:eng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.Encode(tt.locator, tt.lang)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode(%q, %q) = %q, want %q", tt.locator, tt.lang, got, tt.want)
			}
		})
	}
}

func TestCodec_EncodeRejectsDelimiter(t *testing.T) {
	if _, err := Escaped.Encode("https://example.com/file", "en"); err == nil {
		t.Error("expected an error for a locator containing the delimiter")
	}
	if _, err := Plain.Encode("a:b", "en"); err == nil {
		t.Error("expected an error for a locator containing the delimiter")
	}
}

func TestCodec_DecodeSplitsOnFirstDelimiter(t *testing.T) {
	locator, lang, err := Plain.Decode("/download/abc:en:extra")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if locator != "/download/abc" || lang != "en:extra" {
		t.Errorf("Decode = (%q, %q), want (%q, %q)", locator, lang, "/download/abc", "en:extra")
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	for _, token := range []string{"", "no-delimiter", ",download,abc"} {
		_, _, err := Escaped.Decode(token)
		if err == nil {
			t.Errorf("Decode(%q) should fail", token)
			continue
		}
		var malformed *apperrors.ErrMalformedToken
		if !errors.As(err, &malformed) {
			t.Errorf("Decode(%q) error = %T, want *apperrors.ErrMalformedToken", token, err)
		} else if malformed.Token != token {
			t.Errorf("ErrMalformedToken.Token = %q, want %q", malformed.Token, token)
		}
	}
}
