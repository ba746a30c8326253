/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: serialize.go
Description: Versioned model persistence for the encoding detector. Serializes the
full detector state (ranked trigram tables, capacities, preference order, reduction
flag) to self-describing JSON so that a restored detector classifies identically.
*/

package detector

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Helsinki-NLP/chared/pkg/trigram"
)

// ModelVersion is the persisted format version written by Save
const ModelVersion = 1

// modelFile is the on-disk representation of a detector
type modelFile struct {
	Version    int                     `json:"version"`
	Capacity   int                     `json:"capacity"`
	Reduced    bool                    `json:"reduced"`
	Preference []string                `json:"preference"`
	Profiles   map[string]profileEntry `json:"profiles"`
}

// profileEntry stores one encoding's ranked trigram table. The table is the
// concatenation of the 3-byte trigrams in rank order, base64-encoded.
type profileEntry struct {
	Capacity int    `json:"capacity"`
	Ranked   string `json:"ranked"`
}

// Save serializes the detector state to w. The persisted form round-trips
// exactly: Load(Save(x)) classifies identically to x for all inputs.
func (d *Detector) Save(w io.Writer) error {
	m := modelFile{
		Version:    ModelVersion,
		Capacity:   d.capacity,
		Reduced:    d.reduced,
		Preference: append([]string(nil), d.preference...),
		Profiles:   make(map[string]profileEntry, len(d.profiles)),
	}
	for label, p := range d.profiles {
		ranked := p.Rank()
		raw := make([]byte, 0, len(ranked)*3)
		for _, t := range ranked {
			raw = append(raw, t[:]...)
		}
		m.Profiles[label] = profileEntry{
			Capacity: p.Capacity(),
			Ranked:   base64.StdEncoding.EncodeToString(raw),
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// Load restores a detector from a model previously written by Save. Loading
// a model trained with a different capacity is legal; comparisons then
// reflect that original capacity.
func Load(r io.Reader) (*Detector, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var m modelFile
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if m.Version != ModelVersion {
		return nil, fmt.Errorf("unsupported model version %d", m.Version)
	}

	d := New(m.Capacity)
	d.reduced = m.Reduced
	d.preference = append([]string(nil), m.Preference...)
	for label, entry := range m.Profiles {
		raw, err := base64.StdEncoding.DecodeString(entry.Ranked)
		if err != nil {
			return nil, fmt.Errorf("corrupt trigram table for %s: %w", label, err)
		}
		if len(raw)%3 != 0 {
			return nil, fmt.Errorf("corrupt trigram table for %s: %d bytes", label, len(raw))
		}
		ranked := make([]trigram.Trigram, 0, len(raw)/3)
		for i := 0; i+3 <= len(raw); i += 3 {
			var t trigram.Trigram
			copy(t[:], raw[i:i+3])
			ranked = append(ranked, t)
		}
		p := trigram.NewProfile(entry.Capacity)
		p.SetRanked(ranked)
		d.profiles[normalizeLabel(label)] = p
	}
	return d, nil
}

// SaveFile writes the model to path, creating or truncating the file
func (d *Detector) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer f.Close()
	if err := d.Save(f); err != nil {
		return err
	}
	return f.Sync()
}

// LoadFile restores a detector from a model file at path
func LoadFile(path string) (*Detector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
