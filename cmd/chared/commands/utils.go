/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the chared commands. Provides common
configuration loading, logging setup, and model path resolution used across
all command implementations.
*/

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Helsinki-NLP/chared/pkg/logging"
)

// DefaultModelsDir is where named models are resolved and written
const DefaultModelsDir = "./models"

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("CHARED")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system from viper settings and returns
// the pipeline logger
func SetupLogging() (*logging.Logger, error) {
	format := logging.LogFormat(viper.GetString("log_format"))
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Caller:    false,
		Colors:    true,
		Compress:  viper.GetBool("log_compress"),
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	// Rotate and clean up before opening a new log file
	manager := logging.NewLogManager(config.OutputDir, config.MaxFiles, config.MaxSize, config.Compress)
	if _, err := os.Stat(config.OutputDir); err == nil {
		if err := manager.RotateLogs(); err != nil {
			return nil, fmt.Errorf("failed to rotate logs: %w", err)
		}
		if err := manager.CleanupOldLogs(); err != nil {
			return nil, fmt.Errorf("failed to clean up logs: %w", err)
		}
	}

	return logging.NewLogger(config)
}

// ResolveModelPath resolves a model argument: an existing path is used as-is,
// anything else is treated as a model name under the models directory
func ResolveModelPath(nameOrPath string) string {
	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath
	}
	name := nameOrPath
	if !strings.HasSuffix(name, ".model") {
		name += ".model"
	}
	modelsDir := viper.GetString("models_dir")
	if modelsDir == "" {
		modelsDir = DefaultModelsDir
	}
	return filepath.Join(modelsDir, name)
}
