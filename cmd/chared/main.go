/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for chared. Provides the training and
detection commands with comprehensive command-line options, configuration
management, and structured logging for the encoding detection pipeline.
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Helsinki-NLP/chared/cmd/chared/commands"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool

	// Training configuration
	inputPaths          []string
	modelPath           string
	languageSamplePath  string
	similarityThreshold float64
	minFrequency        float64
	folds               int
	capacity            int
	skipValidation      bool
	skipModel           bool

	// Detection configuration
	detectModel string

	// Shared configuration
	modelsDir string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "chared",
		Short: "chared - Character encoding detection for language-specific text",
		Long: `chared detects the character encoding of documents known to be in a
particular language. It trains per-encoding trigram frequency models from a
corpus of documents with declared encodings and classifies unknown documents
by comparing their trigram statistics against the trained profiles.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")

	// Add models directory flag
	rootCmd.PersistentFlags().StringVar(&modelsDir, "models-dir", commands.DefaultModelsDir, "Directory for named models")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))
	viper.BindPFlag("models_dir", rootCmd.PersistentFlags().Lookup("models-dir"))

	// Add train command
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train an encoding detection model from a document corpus",
		Long: `Build a training corpus from documents with declared encodings, optionally
gate documents through a language similarity filter, cross-validate the model
with per-encoding accuracy and confusion reporting, and write the trained
model file.`,
		RunE: commands.RunTrain,
	}

	// Add train command flags
	trainCmd.Flags().StringSliceVar(&inputPaths, "input", []string{}, "Input files or directories (required)")
	trainCmd.Flags().StringVar(&modelPath, "model", "", "Output model name or path (required)")
	trainCmd.Flags().StringVar(&languageSamplePath, "language-sample", "", "Path to a trusted sample text in the target language")
	trainCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.5, "Minimum language similarity for a document to be admitted")
	trainCmd.Flags().Float64Var(&minFrequency, "min-frequency", 0.05, "Minimum relative document frequency per encoding")
	trainCmd.Flags().IntVar(&folds, "folds", 10, "Number of cross-validation folds")
	trainCmd.Flags().IntVar(&capacity, "capacity", 0, "Trigram profile capacity (0 = default)")
	trainCmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Skip cross-validation")
	trainCmd.Flags().BoolVar(&skipModel, "skip-model", false, "Skip writing the final model")

	// Mark required flags
	trainCmd.MarkFlagRequired("input")
	trainCmd.MarkFlagRequired("model")

	// Bind flags to viper
	viper.BindPFlag("inputs", trainCmd.Flags().Lookup("input"))
	viper.BindPFlag("model_output", trainCmd.Flags().Lookup("model"))
	viper.BindPFlag("language_sample", trainCmd.Flags().Lookup("language-sample"))
	viper.BindPFlag("similarity_threshold", trainCmd.Flags().Lookup("similarity-threshold"))
	viper.BindPFlag("min_frequency", trainCmd.Flags().Lookup("min-frequency"))
	viper.BindPFlag("folds", trainCmd.Flags().Lookup("folds"))
	viper.BindPFlag("capacity", trainCmd.Flags().Lookup("capacity"))
	viper.BindPFlag("skip_validation", trainCmd.Flags().Lookup("skip-validation"))
	viper.BindPFlag("skip_model", trainCmd.Flags().Lookup("skip-model"))

	rootCmd.AddCommand(trainCmd)

	// Add detect command
	detectCmd := &cobra.Command{
		Use:   "detect [file or URL]",
		Short: "Detect the encoding of a document",
		Long: `Classify a document against a trained model and print the best-matching
encoding labels. Accepts a local file path or an HTTP(S) URL. Any encoding
declared in transport or markup metadata is reported alongside the result.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunDetect,
	}

	// Add detect command flags
	detectCmd.Flags().StringVar(&detectModel, "model", "", "Model name or path (required)")
	detectCmd.MarkFlagRequired("model")

	viper.BindPFlag("model", detectCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(detectCmd)

	// Add list-models command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-models",
		Short: "List available trained models",
		Long: `List the trained model files in the models directory together with their
encoding labels and profile capacities.`,
		RunE: commands.ListModels,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
