/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builder_test.go
Description: Unit tests for the model builder. Tests corpus admission and skip
reasons, rare-encoding pruning, preference ordering, fan-out training, and the
cross-validation harness.
*/

package builder_test

import (
	"fmt"
	"testing"

	"github.com/Helsinki-NLP/chared/pkg/builder"
	"github.com/Helsinki-NLP/chared/pkg/charset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var czechTexts = []string{
	"Příliš žluťoučký kůň úpěl ďábelské ódy a pěl při tom velmi hlasitě.",
	"Česká republika je stát ve střední Evropě s bohatou historií a kulturou.",
	"Žluté květiny kvetly na louce a děti si hrály u řeky celé odpoledne.",
	"Večerní zprávy přinesly důležité informace o počasí a dopravní situaci.",
	"Učitelé připravili pro žáky zajímavé úlohy z českého jazyka a dějepisu.",
	"Řidiči musí při jízdě věnovat pozornost chodcům přecházejícím silnici.",
}

// htmlDoc renders text into a minimal HTML page declaring enc via a meta tag
// and returns the page bytes in that encoding
func htmlDoc(t *testing.T, text, enc string) []byte {
	t.Helper()
	page := fmt.Sprintf(`<html><head><meta charset=%q></head><body><p>%s</p></body></html>`, enc, text)
	data, err := charset.Encode(page, enc)
	require.NoError(t, err)
	return data
}

// mustAdd admits one document and fails the test on any skip
func mustAdd(t *testing.T, b *builder.Builder, doc []byte, source string) {
	t.Helper()
	_, err := b.AddDocument(doc, "", source)
	require.NoError(t, err)
}

// czechCorpus admits the sample texts, the first four declared as UTF-8 and
// the rest as windows-1250
func czechCorpus(t *testing.T, cfg builder.Config) *builder.Builder {
	t.Helper()
	b := builder.New(cfg)
	for i, text := range czechTexts {
		enc := "utf-8"
		if i >= 4 {
			enc = "windows-1250"
		}
		_, err := b.AddDocument(htmlDoc(t, text, enc), "", fmt.Sprintf("doc-%d.html", i))
		require.NoError(t, err)
	}
	return b
}

func TestAddDocumentNoDeclaredEncoding(t *testing.T) {
	b := builder.New(builder.Config{})
	_, err := b.AddDocument([]byte("<html><body>nothing declared</body></html>"), "", "plain.html")
	assert.ErrorIs(t, err, builder.ErrNoDeclaredEncoding)
	assert.Equal(t, 0, b.DocumentCount())
}

func TestAddDocumentUndecodable(t *testing.T) {
	b := builder.New(builder.Config{})
	// Declares a charset the codec index cannot serve
	doc := append([]byte{0x00, 0x00, 0xFE, 0xFF}, []byte("utf-32 payload")...)
	_, err := b.AddDocument(doc, "", "utf32.html")
	assert.ErrorIs(t, err, builder.ErrUndecodable)
}

func TestAddDocumentEmptyExtraction(t *testing.T) {
	b := builder.New(builder.Config{})
	doc := []byte(`<html><head><meta charset="utf-8"></head><body><script>nope()</script></body></html>`)
	_, err := b.AddDocument(doc, "", "empty.html")
	assert.ErrorIs(t, err, builder.ErrEmptyExtraction)
}

func TestAddDocumentLanguageRejected(t *testing.T) {
	b := builder.New(builder.Config{
		LanguageSample:      czechTexts[0] + " " + czechTexts[1],
		SimilarityThreshold: 0.99,
	})
	doc := htmlDoc(t, "totally unrelated english content about databases", "utf-8")
	_, err := b.AddDocument(doc, "", "english.html")
	assert.ErrorIs(t, err, builder.ErrLanguageRejected)
}

func TestAddDocumentContentTypeHeader(t *testing.T) {
	b := builder.New(builder.Config{})
	data, err := charset.Encode("<html><body><p>"+czechTexts[0]+"</p></body></html>", "iso-8859-2")
	require.NoError(t, err)

	name, err := b.AddDocument(data, "text/html; charset=iso-8859-2", "header.html")
	require.NoError(t, err)
	assert.Equal(t, "iso-8859-2", name)
	assert.Equal(t, map[string]int{"iso-8859-2": 1}, b.EncodingCounts())
}

func TestEncodingsPruneRareAndOrderByFrequency(t *testing.T) {
	b := builder.New(builder.Config{MinFrequency: 0.25})
	for i := 0; i < 5; i++ {
		mustAdd(t, b, htmlDoc(t, czechTexts[i], "utf-8"), fmt.Sprintf("u%d", i))
	}
	for i := 0; i < 3; i++ {
		mustAdd(t, b, htmlDoc(t, czechTexts[i], "windows-1250"), fmt.Sprintf("w%d", i))
	}
	// One ISO document out of nine falls under the 25% threshold
	mustAdd(t, b, htmlDoc(t, czechTexts[5], "iso-8859-2"), "iso0")

	assert.Equal(t, []string{"utf-8", "windows-1250"}, b.Encodings())
}

func TestTrainDetectorEmptyCorpus(t *testing.T) {
	b := builder.New(builder.Config{})
	_, err := b.TrainDetector()
	assert.ErrorIs(t, err, builder.ErrNoUsableData)
}

func TestTrainDetectorFanOut(t *testing.T) {
	b := czechCorpus(t, builder.Config{})

	d, err := b.TrainDetector()
	require.NoError(t, err)

	// Both encodings get a profile even though no single document arrived in
	// both: the fan-out re-encodes every document under every label
	assert.Equal(t, []string{"utf-8", "windows-1250"}, d.Labels())
	assert.Equal(t, []string{"utf-8", "windows-1250"}, d.PreferenceOrder())
	assert.True(t, d.Reduced())

	// The trained detector classifies a fresh UTF-8 Czech document correctly
	data, err := charset.Encode("Nové zprávy o počasí přinesly důležité informace pro řidiče.", "utf-8")
	require.NoError(t, err)
	labels, err := d.Classify(data)
	require.NoError(t, err)
	assert.Contains(t, labels, "utf-8")
}

func TestCrossValidate(t *testing.T) {
	b := czechCorpus(t, builder.Config{Folds: 3})

	report, err := b.CrossValidate()
	require.NoError(t, err)

	assert.Equal(t, 3, report.Folds)
	assert.Equal(t, 6, report.Documents)
	assert.Equal(t, []string{"utf-8", "windows-1250"}, report.Labels)

	// Every document is evaluated once per label
	total := 0
	for _, stats := range report.PerLabel {
		total += stats.Total
	}
	assert.Equal(t, 12, total)

	assert.GreaterOrEqual(t, report.Overall, 0.5)
	assert.LessOrEqual(t, report.Overall, 1.0)
	assert.NotEmpty(t, report.Confusion)
}

func TestCrossValidateTooFewDocuments(t *testing.T) {
	b := builder.New(builder.Config{Folds: 10})
	mustAdd(t, b, htmlDoc(t, czechTexts[0], "utf-8"), "only.html")

	_, err := b.CrossValidate()
	assert.ErrorIs(t, err, builder.ErrNoUsableData)
}

func TestDetectorIndependence(t *testing.T) {
	// Two builders produce independent detector instances; training one must
	// not affect the other
	b1 := czechCorpus(t, builder.Config{})
	b2 := builder.New(builder.Config{})
	mustAdd(t, b2, htmlDoc(t, czechTexts[0], "utf-8"), "solo.html")

	d1, err := b1.TrainDetector()
	require.NoError(t, err)
	d2, err := b2.TrainDetector()
	require.NoError(t, err)

	assert.Len(t, d1.Labels(), 2)
	assert.Equal(t, []string{"utf-8"}, d2.Labels())
}
