/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extract.go
Description: HTML-to-text extraction for chared. Uses goquery to strip markup,
scripts, and styles from decoded documents, producing the canonical text form that
trigram profiles are built from. Plain text passes through untouched apart from
whitespace normalization.
*/

package textutil

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Helsinki-NLP/chared/pkg/trigram"
)

// LooksLikeHTML applies a cheap heuristic to decide whether a decoded
// document should go through markup stripping
func LooksLikeHTML(text string) bool {
	head := text
	if len(head) > 512 {
		head = head[:512]
	}
	lower := strings.ToLower(head)
	for _, marker := range []string{"<!doctype", "<html", "<head", "<body", "<div", "<p>", "<meta", "<title"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ExtractText strips markup from an HTML document and returns its visible
// text with whitespace collapsed. Script and style contents are dropped.
// The underlying parser is lenient, so malformed markup degrades to a
// best-effort extraction rather than an error; an error is only returned
// when the document cannot be parsed at all.
func ExtractText(htmlDoc string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return trigram.NormalizeWhitespace(doc.Text()), nil
}

// CanonicalText produces the canonical text form of a decoded document:
// markup-stripped when it looks like HTML, whitespace-normalized otherwise
func CanonicalText(text string) (string, error) {
	if LooksLikeHTML(text) {
		return ExtractText(text)
	}
	return trigram.NormalizeWhitespace(text), nil
}
