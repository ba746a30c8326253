/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetch_test.go
Description: Unit tests for the document input layer. Tests local file reads,
HTTP fetches against a test server, content-type reporting, and failure modes.
*/

package input_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Helsinki-NLP/chared/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, input.IsURL("http://example.org/page"))
	assert.True(t, input.IsURL("https://example.org/page"))
	assert.False(t, input.IsURL("/var/corpus/doc.html"))
	assert.False(t, input.IsURL("corpus/doc.html"))
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("local content"), 0644))

	data, contentType, err := input.Fetch(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("local content"), data)
	assert.Empty(t, contentType)
}

func TestFetchMissingFile(t *testing.T) {
	_, _, err := input.Fetch(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1250")
		w.Write([]byte("<html><body>remote</body></html>"))
	}))
	defer srv.Close()

	data, contentType, err := input.Fetch(srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(data), "remote")
	assert.Equal(t, "text/html; charset=windows-1250", contentType)
}

func TestFetchURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := input.Fetch(srv.URL + "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
