/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: train.go
Description: Training command implementation for chared. Builds a corpus from
input files, gates documents through the language filter, runs k-fold
cross-validation with accuracy and confusion reporting, and writes the trained
encoding detection model.
*/

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Helsinki-NLP/chared/pkg/builder"
	"github.com/Helsinki-NLP/chared/pkg/input"
	"github.com/Helsinki-NLP/chared/pkg/utils"
)

// RunTrain builds a corpus from the input documents and trains a model
func RunTrain(cmd *cobra.Command, args []string) error {
	fmt.Println("📚 chared - Model Training")
	fmt.Println("==========================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging for training
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	inputs := viper.GetStringSlice("inputs")
	if len(inputs) == 0 {
		return fmt.Errorf("no input files or directories given")
	}

	files, err := collectInputFiles(inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no readable documents found under the given inputs")
	}

	// Load the trusted language sample, if configured
	languageSample := ""
	if samplePath := viper.GetString("language_sample"); samplePath != "" {
		data, err := os.ReadFile(samplePath)
		if err != nil {
			return fmt.Errorf("failed to read language sample: %w", err)
		}
		languageSample = string(data)
	}

	b := builder.New(builder.Config{
		Capacity:            viper.GetInt("capacity"),
		LanguageSample:      languageSample,
		SimilarityThreshold: viper.GetFloat64("similarity_threshold"),
		MinFrequency:        viper.GetFloat64("min_frequency"),
		Folds:               viper.GetInt("folds"),
	})

	fmt.Printf("📁 Reading %d documents\n", len(files))
	accepted, skipped := 0, 0
	for _, file := range files {
		raw, contentType, err := input.Fetch(file)
		if err != nil {
			logger.LogDocumentSkipped(file, err)
			skipped++
			continue
		}
		encoding, err := b.AddDocument(raw, contentType, file)
		if err != nil {
			logger.LogDocumentSkipped(file, err)
			skipped++
			continue
		}
		logger.LogDocumentAccepted(file, encoding)
		accepted++
	}
	fmt.Printf("✅ Accepted %d documents, skipped %d\n", accepted, skipped)
	fmt.Println()

	if b.DocumentCount() == 0 {
		return fmt.Errorf("corpus is empty after filtering: %w", builder.ErrNoUsableData)
	}

	encodings := b.Encodings()
	if len(encodings) == 0 {
		return fmt.Errorf("no encoding meets the frequency threshold: %w", builder.ErrNoUsableData)
	}
	fmt.Printf("🔤 Encodings in corpus: %v\n", encodings)
	fmt.Println()

	// Cross-validation
	if !viper.GetBool("skip_validation") {
		report, err := b.CrossValidate()
		if err != nil {
			return fmt.Errorf("cross-validation failed: %w", err)
		}
		logger.LogValidation(report.Folds, report.Overall)
		printValidationReport(report)

		path, err := utils.WriteReport("validation", "1", report)
		if err != nil {
			return fmt.Errorf("failed to write validation report: %w", err)
		}
		fmt.Printf("📄 Validation report written to %s\n", path)
		fmt.Println()
	}

	// Final model
	if viper.GetBool("skip_model") {
		fmt.Println("⏭️  Skipping final model write")
		return nil
	}

	logger.LogTraining(b.DocumentCount(), encodings)
	d, err := b.TrainDetector()
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	modelPath := ResolveModelPath(viper.GetString("model_output"))
	if err := os.MkdirAll(filepath.Dir(modelPath), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := d.SaveFile(modelPath); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	logger.LogModelSaved(modelPath, d.Labels())
	fmt.Printf("💾 Model saved to %s\n", modelPath)
	return nil
}

// collectInputFiles expands files and directories into a flat document list
func collectInputFiles(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", in, err)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		err = filepath.Walk(in, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk input %s: %w", in, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// printValidationReport prints per-label accuracy and the confusion counts
func printValidationReport(report *builder.ValidationReport) {
	fmt.Printf("📊 Cross-validation (%d folds, %d documents)\n", report.Folds, report.Documents)
	fmt.Printf("   Overall accuracy: %.2f%%\n", report.Overall*100)
	fmt.Println()

	labels := append([]string(nil), report.Labels...)
	sort.Strings(labels)
	for _, label := range labels {
		stats := report.PerLabel[label]
		fmt.Printf("   %-20s %6.2f%% (%d/%d)\n", label, stats.Accuracy*100, stats.Correct, stats.Total)
	}
	fmt.Println()

	fmt.Println("   Confusion (true → returned: count):")
	for _, truth := range labels {
		row := report.Confusion[truth]
		returned := make([]string, 0, len(row))
		for r := range row {
			returned = append(returned, r)
		}
		sort.Strings(returned)
		for _, r := range returned {
			if r != truth {
				fmt.Printf("   %s → %s: %d\n", truth, r, row[r])
			}
		}
	}
	fmt.Println()
}
