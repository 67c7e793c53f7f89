// Package language normalizes the language names and codes returned by subtitle sources
// to ISO 639 codes.
package language

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type catalogEntry struct {
	base language.Base
	name string // English display name
}

// catalog is the ordered list of languages known to the locale database.
// Order is the stable order of display.Supported, which makes substring lookups deterministic.
var catalog = sync.OnceValue(func() []catalogEntry {
	namer := display.English.Languages()
	bases := display.Supported.BaseLanguages()

	entries := make([]catalogEntry, 0, len(bases))
	for _, b := range bases {
		name := namer.Name(b)
		if name == "" {
			continue
		}
		entries = append(entries, catalogEntry{base: b, name: name})
	}
	return entries
})

// ToTwoLetter normalizes a language code or English language name to its ISO 639-1 code
// (or the ISO 639-3 code when the language has no two-letter form).
// Names must match a catalog display name exactly, ignoring case.
// Unknown values are returned trimmed but otherwise unchanged.
func ToTwoLetter(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	if base, ok := parseCode(value); ok {
		return base.String()
	}

	for _, entry := range catalog() {
		if strings.EqualFold(entry.name, value) {
			return entry.base.String()
		}
	}
	return value
}

// ToThreeLetter normalizes a language code or free-text language name to its ISO 639-2 code.
// Names are resolved by scanning the catalog for the first display name containing value;
// the first match wins even when a later entry would match more precisely.
// Unknown values are returned trimmed but otherwise unchanged.
func ToThreeLetter(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	if base, ok := parseCode(value); ok {
		return base.ISO3()
	}

	for _, entry := range catalog() {
		if strings.Contains(entry.name, value) {
			return entry.base.ISO3()
		}
	}
	return value
}

// parseCode recognizes two and three letter ISO 639 codes
func parseCode(value string) (language.Base, bool) {
	if len(value) != 2 && len(value) != 3 {
		return language.Base{}, false
	}
	base, err := language.ParseBase(value)
	if err != nil || base.String() == "und" {
		return language.Base{}, false
	}
	return base, true
}
