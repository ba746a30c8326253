/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: profile.go
Description: Trigram frequency profile for the chared encoding detector. Provides
accumulation of byte trigrams from text samples, deterministic rank ordering with
a fixed capacity, and the rank-based out-of-place distance metric used for all
profile comparisons.
*/

package trigram

import (
	"sort"
	"strings"
)

// DefaultCapacity is the default number of ranked trigrams kept per profile.
// Profiles trained with different capacities remain comparable: the distance
// metric uses each profile's own capacity for normalization and penalties.
const DefaultCapacity = 350

// Trigram is an ordered sequence of exactly three bytes extracted from a
// normalized text stream.
type Trigram [3]byte

// String returns the raw three-byte string form of the trigram
func (t Trigram) String() string {
	return string(t[:])
}

// Profile is a bounded, ranked frequency model over byte trigrams.
// A profile is mutable while training (Accumulate) and becomes logically
// frozen once ranked for comparison. Accumulation is commutative: the order
// of Accumulate calls does not affect the final ranking.
type Profile struct {
	counts   map[Trigram]int // Raw occurrence counts, mutated by Accumulate
	capacity int             // Maximum number of ranked entries
	ranked   []Trigram       // Ranked trigrams, most frequent first
	ranks    map[Trigram]int // Trigram to rank position (0-based)
	dirty    bool            // Whether counts changed since last Rank
}

// NewProfile creates an empty profile with the given capacity.
// A capacity of zero or less selects DefaultCapacity.
func NewProfile(capacity int) *Profile {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Profile{
		counts:   make(map[Trigram]int),
		capacity: capacity,
		dirty:    true,
	}
}

// Capacity returns the maximum number of ranked trigrams the profile keeps
func (p *Profile) Capacity() int {
	return p.capacity
}

// Len returns the number of ranked entries currently in the profile
func (p *Profile) Len() int {
	p.Rank()
	return len(p.ranked)
}

// Accumulate scans text, extracts overlapping trigrams and increments their
// counts. Whitespace runs are collapsed to a single space before extraction
// so that formatting differences between documents do not shift the ranking.
func (p *Profile) Accumulate(text string) {
	norm := NormalizeWhitespace(text)
	if len(norm) < 3 {
		return
	}
	for i := 0; i+3 <= len(norm); i++ {
		var t Trigram
		copy(t[:], norm[i:i+3])
		p.counts[t]++
	}
	p.dirty = true
}

// Rank produces the capped, ordered trigram sequence: descending count, ties
// broken by ascending trigram byte value so rankings are reproducible.
// Idempotent: calling twice without further accumulation yields the same
// sequence.
func (p *Profile) Rank() []Trigram {
	if !p.dirty {
		return p.ranked
	}

	ordered := make([]Trigram, 0, len(p.counts))
	for t := range p.counts {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := p.counts[ordered[i]], p.counts[ordered[j]]
		if ci != cj {
			return ci > cj
		}
		return lessTrigram(ordered[i], ordered[j])
	})

	if len(ordered) > p.capacity {
		ordered = ordered[:p.capacity]
	}

	p.ranked = ordered
	p.ranks = make(map[Trigram]int, len(ordered))
	for i, t := range ordered {
		p.ranks[t] = i
	}
	p.dirty = false
	return p.ranked
}

// RankOf returns the 0-based rank of a trigram and whether it is present in
// the ranked table
func (p *Profile) RankOf(t Trigram) (int, bool) {
	p.Rank()
	r, ok := p.ranks[t]
	return r, ok
}

// Remove deletes a trigram from the profile's counts and forces a re-rank.
// Used by the detector's discriminative reduction pass.
func (p *Profile) Remove(t Trigram) {
	if _, ok := p.counts[t]; ok {
		delete(p.counts, t)
		p.dirty = true
	}
}

// Distance computes the rank-based out-of-place metric between the receiver
// (the query) and other (the reference). For every trigram in the query's
// ranked table the absolute rank difference against the reference is summed;
// trigrams absent from the reference are charged the reference's full
// capacity. The total is normalized by query capacity times reference
// capacity, yielding a value in [0, 1].
//
// The metric is not symmetric: callers must keep the query on the receiver
// side. The detector always uses the unknown document's profile as the query
// against each trained reference profile.
func (p *Profile) Distance(other *Profile) float64 {
	query := p.Rank()
	other.Rank()

	if len(query) == 0 {
		return 0
	}

	total := 0
	for rank, t := range query {
		refRank, ok := other.RankOf(t)
		if !ok {
			total += other.capacity
			continue
		}
		diff := rank - refRank
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}

	maxTotal := float64(p.capacity) * float64(other.capacity)
	d := float64(total) / maxTotal
	if d > 1 {
		d = 1
	}
	return d
}

// Similarity is 1 - Distance, used by the language filter
func (p *Profile) Similarity(other *Profile) float64 {
	return 1 - p.Distance(other)
}

// SetRanked replaces the profile contents with a pre-ranked trigram table.
// Used when restoring a persisted model: synthetic counts are assigned so
// that Rank reproduces the stored order exactly.
func (p *Profile) SetRanked(ranked []Trigram) {
	p.counts = make(map[Trigram]int, len(ranked))
	for i, t := range ranked {
		p.counts[t] = len(ranked) - i
	}
	p.ranked = append([]Trigram(nil), ranked...)
	p.ranks = make(map[Trigram]int, len(ranked))
	for i, t := range ranked {
		p.ranks[t] = i
	}
	p.dirty = false
}

// NormalizeWhitespace collapses every run of whitespace into a single space.
// Training and classification must apply the identical normalization, so all
// trigram extraction in this package funnels through this function.
func NormalizeWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			if !inSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = true
		default:
			b.WriteByte(c)
			inSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func lessTrigram(a, b Trigram) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
