/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: crossval.go
Description: k-fold cross-validation for chared models. Each fold trains a fresh
detector on the remaining folds, reduces it, and classifies the held-out
re-encoded documents. Folds are independent and evaluated in parallel. Produces
per-label and weighted overall accuracy plus a confusion count.
*/

package builder

import (
	"fmt"
	"sync"

	"github.com/Helsinki-NLP/chared/pkg/charset"
)

// LabelStats aggregates per-encoding accuracy over held-out folds
type LabelStats struct {
	Total    int     `json:"total"`    // Held-out examples with this true label
	Correct  int     `json:"correct"`  // Examples scored as correct
	Accuracy float64 `json:"accuracy"` // Correct / Total
}

// ValidationReport is the aggregated outcome of cross-validation
type ValidationReport struct {
	Folds     int                       `json:"folds"`
	Documents int                       `json:"documents"`
	Labels    []string                  `json:"labels"`
	PerLabel  map[string]LabelStats     `json:"per_label"`
	Overall   float64                   `json:"overall_accuracy"` // Weighted by per-label totals
	Confusion map[string]map[string]int `json:"confusion"`        // true label -> returned label -> count
}

// foldOutcome carries one fold's raw counts back to the aggregator
type foldOutcome struct {
	total     map[string]int
	correct   map[string]int
	confusion map[string]map[string]int
	err       error
}

// CrossValidate partitions the pruned corpus into the configured number of
// folds and evaluates each fold against a detector trained on the others.
// A classification is scored correct when the true label is among the
// returned labels, or when every returned label decodes the held-out bytes
// to text identical to the true label's decoding: genuinely indistinguishable
// encodings are not penalized. Folds share no mutable state and run in
// parallel. Returns ErrNoUsableData when the corpus is too small to fold.
func (b *Builder) CrossValidate() (*ValidationReport, error) {
	b.prune()
	k := b.config.Folds
	if len(b.docs) < 2 || len(b.docs) < k {
		return nil, fmt.Errorf("%w: %d documents for %d folds", ErrNoUsableData, len(b.docs), k)
	}
	encodings := b.Encodings()

	outcomes := make([]foldOutcome, k)
	var wg sync.WaitGroup
	for fold := 0; fold < k; fold++ {
		wg.Add(1)
		go func(fold int) {
			defer wg.Done()
			outcomes[fold] = b.evaluateFold(fold, k, encodings)
		}(fold)
	}
	wg.Wait()

	report := &ValidationReport{
		Folds:     k,
		Documents: len(b.docs),
		Labels:    encodings,
		PerLabel:  make(map[string]LabelStats),
		Confusion: make(map[string]map[string]int),
	}

	totalAll, correctAll := 0, 0
	for _, out := range outcomes {
		if out.err != nil {
			return nil, out.err
		}
		for label, n := range out.total {
			stats := report.PerLabel[label]
			stats.Total += n
			stats.Correct += out.correct[label]
			report.PerLabel[label] = stats
			totalAll += n
			correctAll += out.correct[label]
		}
		for truth, row := range out.confusion {
			if report.Confusion[truth] == nil {
				report.Confusion[truth] = make(map[string]int)
			}
			for returned, n := range row {
				report.Confusion[truth][returned] += n
			}
		}
	}

	for label, stats := range report.PerLabel {
		if stats.Total > 0 {
			stats.Accuracy = float64(stats.Correct) / float64(stats.Total)
		}
		report.PerLabel[label] = stats
	}
	if totalAll > 0 {
		report.Overall = float64(correctAll) / float64(totalAll)
	}
	return report, nil
}

// evaluateFold trains a fresh detector without fold's documents and
// classifies every re-encoded held-out document
func (b *Builder) evaluateFold(fold, k int, encodings []string) foldOutcome {
	out := foldOutcome{
		total:     make(map[string]int),
		correct:   make(map[string]int),
		confusion: make(map[string]map[string]int),
	}

	var trainDocs, heldOut []Document
	for i, doc := range b.docs {
		if i%k == fold {
			heldOut = append(heldOut, doc)
		} else {
			trainDocs = append(trainDocs, doc)
		}
	}
	if len(heldOut) == 0 || len(trainDocs) == 0 {
		return out
	}

	d, err := b.trainOn(trainDocs, encodings)
	if err != nil {
		out.err = err
		return out
	}
	d.Reduce()

	for _, doc := range heldOut {
		for _, truth := range encodings {
			data, err := charset.Encode(doc.Text, truth)
			if err != nil {
				out.err = fmt.Errorf("failed to re-encode held-out %s as %s: %w", doc.ID, truth, err)
				return out
			}

			returned, err := d.Classify(data)
			if err != nil {
				out.err = err
				return out
			}

			out.total[truth]++
			if isCorrect(data, truth, returned) {
				out.correct[truth]++
			}
			if out.confusion[truth] == nil {
				out.confusion[truth] = make(map[string]int)
			}
			for _, r := range returned {
				out.confusion[truth][r]++
			}
		}
	}
	return out
}

// isCorrect scores one classification: the true label is among the returned
// labels, or every returned label decodes the bytes identically to the truth
func isCorrect(data []byte, truth string, returned []string) bool {
	for _, r := range returned {
		if r == truth {
			return true
		}
	}

	want, err := charset.Decode(data, truth)
	if err != nil {
		return false
	}
	for _, r := range returned {
		got, err := charset.Decode(data, r)
		if err != nil || got != want {
			return false
		}
	}
	return len(returned) > 0
}
