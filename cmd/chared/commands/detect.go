/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detect.go
Description: Detection command implementation for chared. Loads a trained model,
reads a document from a file or URL, reports any declared encoding found in the
transport or markup metadata, and prints the best-matching encoding labels.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Helsinki-NLP/chared/pkg/charset"
	"github.com/Helsinki-NLP/chared/pkg/detector"
	"github.com/Helsinki-NLP/chared/pkg/input"
)

// RunDetect classifies the encoding of a document against a trained model
func RunDetect(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging for detection
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	if len(args) != 1 {
		return fmt.Errorf("expected exactly one file or URL argument")
	}
	target := args[0]

	modelPath := ResolveModelPath(viper.GetString("model"))
	d, err := detector.LoadFile(modelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	logger.Debug("Model loaded", map[string]interface{}{
		"path":   modelPath,
		"labels": d.Labels(),
	})

	raw, contentType, err := input.Fetch(target)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	// A declared encoding is authoritative metadata; report it alongside the
	// statistical result rather than guessing over it silently.
	if declared := charset.Sniff(raw, contentType); declared != "" {
		fmt.Printf("📎 Declared encoding: %s\n", declared)
	}

	labels, err := d.Classify(raw)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	fmt.Printf("🔍 Detected encoding(s) for %s:\n", target)
	for _, label := range labels {
		fmt.Printf("   %s\n", label)
	}
	return nil
}
