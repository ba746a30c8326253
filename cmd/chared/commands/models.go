/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: models.go
Description: Model listing command for chared. Lists trained model files in the
models directory together with their encoding labels and profile capacities.
*/

package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Helsinki-NLP/chared/pkg/detector"
)

// ListModels prints the models available in the models directory
func ListModels(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	modelsDir := viper.GetString("models_dir")
	if modelsDir == "" {
		modelsDir = DefaultModelsDir
	}

	files, err := filepath.Glob(filepath.Join(modelsDir, "*.model"))
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	if len(files) == 0 {
		fmt.Printf("📭 No models found in %s\n", modelsDir)
		return nil
	}

	fmt.Printf("📦 Models in %s:\n", modelsDir)
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".model")
		d, err := detector.LoadFile(file)
		if err != nil {
			fmt.Printf("   %-20s (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("   %-20s capacity=%d encodings=%v\n", name, d.Capacity(), d.Labels())
	}
	return nil
}
