/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detector.go
Description: Encoding detector for chared. Owns one trigram profile per known
encoding label and provides training, discriminative reduction, and classification
of raw byte sequences against the trained profiles.
*/

package detector

import (
	"errors"
	"sort"
	"strings"

	"github.com/Helsinki-NLP/chared/pkg/trigram"
)

const (
	// ClassifyEpsilon is the tie tolerance for Classify: every label whose
	// distance lies within this margin of the minimum is returned. Chosen
	// empirically via the cross-validation harness; near-identical
	// single-byte encodings legitimately tie under this margin.
	ClassifyEpsilon = 0.02

	// ReduceRankTol is the rank-position tolerance used by Reduce when
	// deciding that a trigram carries no discriminative signal
	ReduceRankTol = 3
)

// ErrNotTrained is returned by Classify on a detector with zero trained
// profiles. The detector never silently returns a guess.
var ErrNotTrained = errors.New("detector has no trained profiles")

// Detector maps encoding labels to trigram profiles. A detector is created
// empty, mutated through repeated Train calls, and finalized via Reduce,
// which ranks every profile even when there is nothing to prune. After
// Reduce (or Load) the detector is read-only and Classify is safe to invoke
// concurrently.
type Detector struct {
	profiles   map[string]*trigram.Profile
	preference []string // Tie-break order, more common encodings first
	capacity   int      // Profile capacity used for training and queries
	reduced    bool     // Whether the one-shot Reduce pass has run
}

// New creates an empty detector whose profiles use the given capacity.
// A capacity of zero or less selects trigram.DefaultCapacity.
func New(capacity int) *Detector {
	if capacity <= 0 {
		capacity = trigram.DefaultCapacity
	}
	return &Detector{
		profiles: make(map[string]*trigram.Profile),
		capacity: capacity,
	}
}

// normalizeLabel implements case-insensitive label equality. Labels are
// otherwise opaque to the detector.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Train builds or extends the profile for label by accumulating data.
// Training data for a label is the byte-level representation of documents as
// that encoding renders them, which makes each profile a fingerprint of the
// byte sequences the charset tends to produce for the target language.
func (d *Detector) Train(data []byte, label string) {
	key := normalizeLabel(label)
	p, ok := d.profiles[key]
	if !ok {
		p = trigram.NewProfile(d.capacity)
		d.profiles[key] = p
	}
	p.Accumulate(string(data))
}

// Labels returns the trained encoding labels in sorted order
func (d *Detector) Labels() []string {
	labels := make([]string, 0, len(d.profiles))
	for l := range d.profiles {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Capacity returns the profile capacity the detector trains and queries with
func (d *Detector) Capacity() int {
	return d.capacity
}

// SetPreferenceOrder replaces the tie-break list used by Classify. It does
// not affect trained profiles.
func (d *Detector) SetPreferenceOrder(labels []string) {
	pref := make([]string, 0, len(labels))
	for _, l := range labels {
		pref = append(pref, normalizeLabel(l))
	}
	d.preference = pref
}

// PreferenceOrder returns the current tie-break list
func (d *Detector) PreferenceOrder() []string {
	return append([]string(nil), d.preference...)
}

// Reduce performs the one-shot discriminative pruning pass. Trigrams that
// appear in every trained profile at near-identical rank (within
// ReduceRankTol positions) carry no discriminative signal and are removed
// from all profiles. Pruning is a no-op on fewer than two profiles, and on
// any call after the first; every call finalizes the profiles regardless, so
// a detector that has been through Reduce can serve Classify concurrently.
func (d *Detector) Reduce() {
	defer d.finalize()
	if d.reduced || len(d.profiles) < 2 {
		return
	}
	d.reduced = true

	// Candidates come from an arbitrary profile; a trigram missing from any
	// other profile is discriminative by definition.
	var first *trigram.Profile
	for _, p := range d.profiles {
		first = p
		break
	}

	var shared []trigram.Trigram
	for _, t := range first.Rank() {
		minRank, maxRank := -1, -1
		everywhere := true
		for _, p := range d.profiles {
			r, ok := p.RankOf(t)
			if !ok {
				everywhere = false
				break
			}
			if minRank < 0 || r < minRank {
				minRank = r
			}
			if r > maxRank {
				maxRank = r
			}
		}
		if everywhere && maxRank-minRank <= ReduceRankTol {
			shared = append(shared, t)
		}
	}

	for _, t := range shared {
		for _, p := range d.profiles {
			p.Remove(t)
		}
	}
}

// finalize ranks every profile so no later comparison re-ranks. Classify on
// a finalized detector touches profiles read-only.
func (d *Detector) finalize() {
	for _, p := range d.profiles {
		p.Rank()
	}
}

// Reduced reports whether the reduction pass has run
func (d *Detector) Reduced() bool {
	return d.reduced
}

// Classify builds a transient profile from the query bytes and returns every
// trained label whose out-of-place distance lies within ClassifyEpsilon of
// the minimum, ordered by the preference list (then by distance, then by
// label for determinism). Returns ErrNotTrained on an untrained detector and
// never returns an empty set otherwise.
func (d *Detector) Classify(data []byte) ([]string, error) {
	if len(d.profiles) == 0 {
		return nil, ErrNotTrained
	}

	query := trigram.NewProfile(d.capacity)
	query.Accumulate(string(data))
	query.Rank()

	distances := make(map[string]float64, len(d.profiles))
	minDist := -1.0
	for label, p := range d.profiles {
		dist := query.Distance(p)
		distances[label] = dist
		if minDist < 0 || dist < minDist {
			minDist = dist
		}
	}

	var matches []string
	for label, dist := range distances {
		if dist <= minDist+ClassifyEpsilon {
			matches = append(matches, label)
		}
	}

	prefIndex := make(map[string]int, len(d.preference))
	for i, l := range d.preference {
		prefIndex[l] = i
	}
	rankOf := func(label string) int {
		if i, ok := prefIndex[label]; ok {
			return i
		}
		return len(d.preference)
	}
	sort.Slice(matches, func(i, j int) bool {
		ri, rj := rankOf(matches[i]), rankOf(matches[j])
		if ri != rj {
			return ri < rj
		}
		if distances[matches[i]] != distances[matches[j]] {
			return distances[matches[i]] < distances[matches[j]]
		}
		return matches[i] < matches[j]
	})

	return matches, nil
}
