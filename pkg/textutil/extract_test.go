/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extract_test.go
Description: Unit tests for HTML text extraction. Tests markup stripping, script
and style removal, tolerance of malformed markup, and plain-text passthrough.
*/

package textutil_test

import (
	"testing"

	"github.com/Helsinki-NLP/chared/pkg/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextStripsMarkup(t *testing.T) {
	doc := `<html><head><title>Titulek</title></head>
<body><h1>Nadpis</h1><p>První odstavec.</p><p>Druhý odstavec.</p></body></html>`

	text, err := textutil.ExtractText(doc)
	require.NoError(t, err)
	assert.Contains(t, text, "Nadpis")
	assert.Contains(t, text, "První odstavec.")
	assert.NotContains(t, text, "<p>")
	assert.NotContains(t, text, "<html")
}

func TestExtractTextDropsScriptAndStyle(t *testing.T) {
	doc := `<html><body><script>var hidden = "secret";</script>
<style>body { color: red; }</style><p>visible</p></body></html>`

	text, err := textutil.ExtractText(doc)
	require.NoError(t, err)
	assert.Contains(t, text, "visible")
	assert.NotContains(t, text, "secret")
	assert.NotContains(t, text, "color")
}

func TestExtractTextToleratesMalformedMarkup(t *testing.T) {
	// Unclosed tags and stray brackets must degrade, not fail
	doc := `<html><body><p>broken <b>markup <div>still here`

	text, err := textutil.ExtractText(doc)
	require.NoError(t, err)
	assert.Contains(t, text, "still here")
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, textutil.LooksLikeHTML("<!DOCTYPE html><html><body>x</body></html>"))
	assert.True(t, textutil.LooksLikeHTML("  <HTML><HEAD>"))
	assert.False(t, textutil.LooksLikeHTML("just a plain sentence with < and > signs"))
}

func TestCanonicalTextPlainPassthrough(t *testing.T) {
	text, err := textutil.CanonicalText("plain  text\n\nwith   spacing")
	require.NoError(t, err)
	assert.Equal(t, "plain text with spacing", text)
}

func TestCanonicalTextEmptyExtraction(t *testing.T) {
	text, err := textutil.CanonicalText("<html><body><script>only(code)</script></body></html>")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
