/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter.go
Description: Language admission filter for chared corpus construction. Wraps a
single trigram profile built from a trusted language sample and scores candidate
documents by trigram similarity. Used only to gate training input, never on the
inference path.
*/

package language

import (
	"github.com/Helsinki-NLP/chared/pkg/trigram"
)

// DefaultThreshold is the similarity score below which a document is
// considered to be in a different language than the trusted sample
const DefaultThreshold = 0.5

// Filter scores documents against a trusted language sample
type Filter struct {
	sample *trigram.Profile
}

// NewFilter builds a filter from a trusted sample text in the target
// language. The sample profile is frozen immediately.
func NewFilter(sample string) *Filter {
	p := trigram.NewProfile(0)
	p.Accumulate(sample)
	p.Rank()
	return &Filter{sample: p}
}

// Score returns the normalized similarity of document to the trusted sample,
// in [0, 1]. The document profile is the query side of the metric.
func (f *Filter) Score(document string) float64 {
	p := trigram.NewProfile(0)
	p.Accumulate(document)
	return p.Similarity(f.sample)
}

// Accept reports whether document scores at or above threshold. A threshold
// of zero or less accepts everything.
func (f *Filter) Accept(document string, threshold float64) bool {
	if threshold <= 0 {
		return true
	}
	return f.Score(document) >= threshold
}
