package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// layoutStripper removes the layout whitespace the source pages are indented with.
var layoutStripper = strings.NewReplacer("\n", "", "\r", "", "\t", "")

// NewUTF8Reader wraps an io.Reader with automatic character encoding detection and conversion to UTF-8.
//
// The charset is detected from:
// 1. HTML <meta charset="..."> or <meta http-equiv="Content-Type"> tags
// 2. Byte order marks (BOM)
// 3. Heuristic detection if none of the above are present
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	return charset.NewReader(body, "")
}

// loadDocument converts body to UTF-8, strips layout whitespace and builds the DOM.
//
// Whitespace is stripped before parsing. Entities are decoded by the tokenizer one
// text node at a time, so an encoded &lt; or &gt; ends up as literal text instead of
// being mistaken for markup.
func loadDocument(body io.Reader) (*goquery.Document, error) {
	utf8Body, err := NewUTF8Reader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	raw, err := io.ReadAll(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(layoutStripper.Replace(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
