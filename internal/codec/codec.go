// Package codec encodes a subtitle download locator and its language into the opaque
// token handed to callers, and decodes it back on retrieval.
package codec

import (
	"fmt"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
)

const (
	// Delimiter separates the escaped locator from the language code
	Delimiter = ":"

	pathSeparator = "/"
	placeholder   = ","
)

// Codec converts (locator, language) pairs to tokens and back
type Codec struct {
	escape bool
}

var (
	// Escaped replaces path separators in the locator with a placeholder.
	// Used for sources whose locators are paths.
	Escaped = Codec{escape: true}

	// Plain keeps the locator as-is.
	Plain = Codec{}
)

// Encode builds the token for a locator and language.
// It fails when the (escaped) locator contains the delimiter, since such a token could not be decoded.
func (c Codec) Encode(locator, language string) (string, error) {
	escaped := locator
	if c.escape {
		escaped = strings.ReplaceAll(locator, pathSeparator, placeholder)
	}
	if strings.Contains(escaped, Delimiter) {
		return "", fmt.Errorf("locator %q contains token delimiter %q", locator, Delimiter)
	}
	return escaped + Delimiter + language, nil
}

// Decode splits a token on the first delimiter and restores the locator.
// A token without delimiter is a caller contract violation and returns *apperrors.ErrMalformedToken.
func (c Codec) Decode(token string) (locator string, language string, err error) {
	parts := strings.SplitN(token, Delimiter, 2)
	if len(parts) < 2 {
		return "", "", &apperrors.ErrMalformedToken{Token: token}
	}

	locator = parts[0]
	if c.escape {
		locator = strings.ReplaceAll(locator, placeholder, pathSeparator)
	}
	return locator, parts[1], nil
}
