/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builder.go
Description: Model builder for chared. Orchestrates corpus ingestion (declaration
sniffing, decoding, text extraction, language gating), rare-encoding pruning, and
the per-encoding re-encoding fan-out that trains the detector. Recoverable
per-document failures are returned to the caller, never logged here.
*/

package builder

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Helsinki-NLP/chared/pkg/charset"
	"github.com/Helsinki-NLP/chared/pkg/detector"
	"github.com/Helsinki-NLP/chared/pkg/language"
	"github.com/Helsinki-NLP/chared/pkg/textutil"
)

// Recoverable per-document skip reasons. The caller logs these and continues
// the corpus build; they never abort a batch.
var (
	ErrNoDeclaredEncoding = errors.New("document declares no encoding")
	ErrUndecodable        = errors.New("document cannot be decoded")
	ErrEmptyExtraction    = errors.New("no text content after extraction")
	ErrLanguageRejected   = errors.New("document rejected by language filter")
)

// ErrNoUsableData is fatal: the corpus is empty after filtering and pruning
var ErrNoUsableData = errors.New("no usable training data")

// Config controls corpus admission and training
type Config struct {
	Capacity            int     // Trigram profile capacity (0 = default)
	LanguageSample      string  // Trusted sample text; empty disables the filter
	SimilarityThreshold float64 // Minimum language filter score for admission
	MinFrequency        float64 // Minimum relative document frequency per encoding
	Folds               int     // Cross-validation fold count (0 = DefaultFolds)
}

// DefaultMinFrequency drops encodings seen in fewer than 5% of documents
const DefaultMinFrequency = 0.05

// DefaultFolds is the cross-validation fold count used when none is configured
const DefaultFolds = 10

// Document is one accepted corpus entry: the canonical text of a source
// document together with the encoding it actually arrived in.
type Document struct {
	ID       string `json:"id"`       // Unique document identifier
	Source   string `json:"source"`   // File path or URL the document came from
	Encoding string `json:"encoding"` // Canonical name of the declared encoding
	Text     string `json:"-"`        // Canonical extracted text
}

// Builder accumulates an admitted corpus and trains detectors from it.
// One builder mutates one detector at a time; there is no shared-writer
// scenario.
type Builder struct {
	config Config
	filter *language.Filter
	docs   []Document
	counts map[string]int // Documents per declared encoding
	pruned bool
}

// New creates a builder for the given configuration
func New(config Config) *Builder {
	b := &Builder{
		config: config,
		counts: make(map[string]int),
	}
	if config.LanguageSample != "" {
		b.filter = language.NewFilter(config.LanguageSample)
	}
	if b.config.MinFrequency <= 0 {
		b.config.MinFrequency = DefaultMinFrequency
	}
	if b.config.Folds <= 0 {
		b.config.Folds = DefaultFolds
	}
	return b
}

// AddDocument admits one raw document into the corpus and returns the
// canonical name of its declared encoding. The declared encoding is sniffed
// from transport and markup metadata, the bytes are decoded under the shared
// substitution policy, markup is stripped, and the language filter is
// applied. Returns one of the recoverable skip errors when the document
// cannot be used; the caller should log and continue.
func (b *Builder) AddDocument(raw []byte, contentType string, source string) (string, error) {
	declared := charset.Sniff(raw, contentType)
	if declared == "" {
		return "", fmt.Errorf("%w: %s", ErrNoDeclaredEncoding, source)
	}

	text, err := charset.Decode(raw, declared)
	if err != nil {
		return "", fmt.Errorf("%w: %s as %s: %v", ErrUndecodable, source, declared, err)
	}

	canonical, err := textutil.CanonicalText(text)
	if err != nil || canonical == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyExtraction, source)
	}

	if b.filter != nil && !b.filter.Accept(canonical, b.config.SimilarityThreshold) {
		return "", fmt.Errorf("%w: %s (score %.3f)", ErrLanguageRejected, source, b.filter.Score(canonical))
	}

	name := charset.CanonicalName(declared)
	b.docs = append(b.docs, Document{
		ID:       uuid.NewString(),
		Source:   source,
		Encoding: name,
		Text:     canonical,
	})
	b.counts[name]++
	b.pruned = false
	return name, nil
}

// DocumentCount returns the number of admitted documents
func (b *Builder) DocumentCount() int {
	return len(b.docs)
}

// EncodingCounts returns the number of admitted documents per encoding
func (b *Builder) EncodingCounts() map[string]int {
	out := make(map[string]int, len(b.counts))
	for k, v := range b.counts {
		out[k] = v
	}
	return out
}

// prune drops encodings whose relative document frequency falls below the
// configured threshold, along with their documents. Low-sample profiles are
// unreliable and would pollute classification.
func (b *Builder) prune() {
	if b.pruned || len(b.docs) == 0 {
		b.pruned = true
		return
	}

	total := len(b.docs)
	keep := make(map[string]bool, len(b.counts))
	for enc, n := range b.counts {
		if float64(n)/float64(total) >= b.config.MinFrequency {
			keep[enc] = true
		}
	}

	kept := b.docs[:0]
	counts := make(map[string]int)
	for _, doc := range b.docs {
		if keep[doc.Encoding] {
			kept = append(kept, doc)
			counts[doc.Encoding]++
		}
	}
	b.docs = kept
	b.counts = counts
	b.pruned = true
}

// Encodings returns the encodings that survive frequency pruning, ordered by
// descending document count (more common first), ties by name. This is also
// the preference order installed on trained detectors.
func (b *Builder) Encodings() []string {
	b.prune()
	encs := make([]string, 0, len(b.counts))
	for enc := range b.counts {
		encs = append(encs, enc)
	}
	sort.Slice(encs, func(i, j int) bool {
		if b.counts[encs[i]] != b.counts[encs[j]] {
			return b.counts[encs[i]] > b.counts[encs[j]]
		}
		return encs[i] < encs[j]
	})
	return encs
}

// TrainDetector trains, reduces, and returns a detector over the pruned
// corpus. Every document is re-encoded under every surviving encoding and fed
// to that encoding's profile: without the fan-out, profiles would only ever
// see their own "correct" bytes and could not discriminate against
// commonly-confused alternates. Returns ErrNoUsableData on an empty corpus.
func (b *Builder) TrainDetector() (*detector.Detector, error) {
	b.prune()
	if len(b.docs) == 0 {
		return nil, ErrNoUsableData
	}
	encodings := b.Encodings()

	d, err := b.trainOn(b.docs, encodings)
	if err != nil {
		return nil, err
	}
	d.Reduce()
	return d, nil
}

// trainOn performs the re-encoding fan-out over docs for the given encodings
func (b *Builder) trainOn(docs []Document, encodings []string) (*detector.Detector, error) {
	d := detector.New(b.config.Capacity)
	for _, doc := range docs {
		for _, enc := range encodings {
			data, err := charset.Encode(doc.Text, enc)
			if err != nil {
				return nil, fmt.Errorf("failed to re-encode %s as %s: %w", doc.ID, enc, err)
			}
			d.Train(data, enc)
		}
	}
	d.SetPreferenceOrder(encodings)
	return d, nil
}
