/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: charset_test.go
Description: Unit tests for encoding name resolution, the shared substitution
policy on decode/encode, and the declaration sniffer.
*/

package charset_test

import (
	"testing"

	"github.com/Helsinki-NLP/chared/pkg/charset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "utf-8", charset.CanonicalName("UTF_8"))
	assert.Equal(t, "windows-1250", charset.CanonicalName(" Windows_1250 "))
	assert.Equal(t, "iso-8859-2", charset.CanonicalName("ISO-8859-2"))
}

func TestLookupKnownEncodings(t *testing.T) {
	for _, label := range []string{"utf-8", "utf_8", "windows-1250", "iso-8859-2", "KOI8-R"} {
		enc, canonical, err := charset.Lookup(label)
		require.NoError(t, err, "label %s", label)
		assert.NotNil(t, enc)
		assert.NotEmpty(t, canonical)
	}
}

func TestLookupUnknownEncoding(t *testing.T) {
	_, _, err := charset.Lookup("no-such-charset")
	assert.ErrorIs(t, err, charset.ErrUnknownEncoding)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	text := "příliš žluťoučký kůň"

	encoded, err := charset.Encode(text, "windows-1250")
	require.NoError(t, err)
	assert.NotEqual(t, []byte(text), encoded)

	decoded, err := charset.Decode(encoded, "windows-1250")
	require.NoError(t, err)
	assert.Equal(t, text, decoded)
}

func TestEncodeSubstitutesUnmappable(t *testing.T) {
	// Cyrillic has no windows-1250 mapping; the policy substitutes rather
	// than failing so training and classification stay aligned.
	out, err := charset.Encode("привет", "windows-1250")
	require.NoError(t, err)
	assert.Len(t, out, 6)
}

func TestDecodeSubstitutesInvalidBytes(t *testing.T) {
	// 0xFF 0xFE is not valid UTF-8; the decoder must substitute, not fail
	text, err := charset.Decode([]byte{'a', 0xFF, 0xFE, 'b'}, "utf-8")
	require.NoError(t, err)
	assert.Contains(t, text, "a")
	assert.Contains(t, text, "b")
	assert.NotContains(t, text, "�")
}

func TestSniffBOM(t *testing.T) {
	assert.Equal(t, "utf-8", charset.Sniff([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, ""))
	assert.Equal(t, "utf-16be", charset.Sniff([]byte{0xFE, 0xFF, 0x00, 'h'}, ""))
	assert.Equal(t, "utf-16le", charset.Sniff([]byte{0xFF, 0xFE, 'h', 0x00}, ""))
}

func TestSniffContentTypeHeader(t *testing.T) {
	got := charset.Sniff([]byte("<html></html>"), "text/html; charset=ISO-8859-2")
	assert.Equal(t, "iso-8859-2", got)
}

func TestSniffMetaCharset(t *testing.T) {
	doc := []byte(`<html><head><meta charset="windows-1250"></head><body></body></html>`)
	assert.Equal(t, "windows-1250", charset.Sniff(doc, ""))
}

func TestSniffMetaHTTPEquiv(t *testing.T) {
	doc := []byte(`<html><head><meta http-equiv="Content-Type" content="text/html; charset=utf-8"></head></html>`)
	assert.Equal(t, "utf-8", charset.Sniff(doc, ""))
}

func TestSniffXMLDeclaration(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="iso-8859-2"?><root/>`)
	assert.Equal(t, "iso-8859-2", charset.Sniff(doc, ""))
}

func TestSniffNothingDeclared(t *testing.T) {
	assert.Equal(t, "", charset.Sniff([]byte("<html><body>plain</body></html>"), "text/html"))
}

func TestSniffRejectsUnknownDeclaration(t *testing.T) {
	doc := []byte(`<html><head><meta charset="bogus-charset"></head></html>`)
	assert.Equal(t, "", charset.Sniff(doc, ""))
}
