/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetch.go
Description: Document input layer for chared. Reads raw bytes from local files or
HTTP(S) URLs with a bounded client timeout and reports the transport-level content
type when one is available. Per-document failures are recoverable for the caller.
*/

package input

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// MaxDocumentSize bounds how many bytes are read from a single document.
// Trigram profiles saturate long before this limit.
const MaxDocumentSize = 8 << 20 // 8 MiB

// DefaultTimeout is the HTTP client timeout for URL fetches
const DefaultTimeout = 30 * time.Second

var httpClient = &http.Client{Timeout: DefaultTimeout}

// IsURL reports whether the argument should be fetched over HTTP(S)
func IsURL(pathOrURL string) bool {
	return strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://")
}

// Fetch reads the raw bytes of a document from a local path or an HTTP(S)
// URL. The second return value is the transport Content-Type header for URL
// fetches and empty for files.
func Fetch(pathOrURL string) ([]byte, string, error) {
	if IsURL(pathOrURL) {
		return fetchURL(pathOrURL)
	}
	data, err := readFileBounded(pathOrURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", pathOrURL, err)
	}
	return data, "", nil
}

func fetchURL(url string) ([]byte, string, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func readFileBounded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxDocumentSize))
}
