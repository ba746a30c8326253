/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: charset.go
Description: Encoding name resolution and byte-level codecs for chared. Wraps the
golang.org/x/text encoding index with a single shared substitution policy for
unmappable characters so that training and classification see identical bytes.
*/

package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrUnknownEncoding is returned when a label cannot be resolved to a codec
var ErrUnknownEncoding = errors.New("unknown encoding label")

// SubstituteRune is the neutral replacement used for bytes that cannot be
// decoded under a given encoding. Both training and classification decode
// through this policy, so models and queries stay comparable.
const SubstituteRune = ' '

// CanonicalName normalizes an encoding label for map keys and equality:
// lowercase, trimmed, underscores folded to hyphens. "UTF_8", "utf-8" and
// " Utf_8 " all canonicalize to "utf-8".
func CanonicalName(label string) string {
	label = strings.TrimSpace(strings.ToLower(label))
	return strings.ReplaceAll(label, "_", "-")
}

// Lookup resolves an encoding label (case-insensitive, underscore or hyphen
// separated) to its codec and canonical name. Returns ErrUnknownEncoding for
// labels the index does not know.
func Lookup(label string) (encoding.Encoding, string, error) {
	name := CanonicalName(label)
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		// The encoding resolved but has no canonical name entry; fall back
		// to the normalized input label.
		canonical = name
	}
	return enc, canonical, nil
}

// Decode converts raw bytes in the named encoding to UTF-8 text. Undecodable
// byte sequences are replaced with SubstituteRune instead of failing, per the
// shared substitution policy.
func Decode(data []byte, label string) (string, error) {
	enc, _, err := Lookup(label)
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", label, err)
	}
	// x/text decoders emit U+FFFD for invalid input; fold it into the
	// neutral substitute so profiles never contain replacement-rune bytes.
	return strings.ReplaceAll(string(decoded), "�", string(SubstituteRune)), nil
}

// Encode converts UTF-8 text to raw bytes in the named encoding. Runes the
// target encoding cannot represent are substituted, never dropped and never
// an error, matching the Decode policy.
func Encode(text string, label string) ([]byte, error) {
	enc, _, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	encoder := encoding.ReplaceUnsupported(enc.NewEncoder())
	out, err := encoder.Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", label, err)
	}
	return out, nil
}
