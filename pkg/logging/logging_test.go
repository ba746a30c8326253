/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for the logging system. Tests logger creation and validation,
output formats, pipeline-specific logging methods, log rotation with compression,
retention cleanup, and log file statistics.
*/

package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Helsinki-NLP/chared/pkg/logging"
)

func TestLoggerCreation(t *testing.T) {
	// Default configuration
	logger, err := logging.NewLogger(nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Close()
	os.RemoveAll("./logs")

	// Custom configuration
	logger, err = logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelDebug,
		Format:    logging.LogFormatJSON,
		OutputDir: t.TempDir(),
		MaxFiles:  5,
		MaxSize:   1024 * 1024,
		Timestamp: true,
		Colors:    false,
	})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	defer logger.Close()
}

func TestLoggerConfigValidate(t *testing.T) {
	valid := logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatCustom,
		OutputDir: "./logs",
		MaxFiles:  10,
		MaxSize:   1024,
	}
	assert.NoError(t, valid.Validate())

	noDir := valid
	noDir.OutputDir = ""
	assert.Error(t, noDir.Validate())

	badFormat := valid
	badFormat.Format = "xml"
	assert.Error(t, badFormat.Validate())

	badLevel := valid
	badLevel.Level = "verbose"
	assert.Error(t, badLevel.Validate())

	badRetention := valid
	badRetention.MaxFiles = 0
	assert.Error(t, badRetention.Validate())
}

func TestLogFormats(t *testing.T) {
	formats := []logging.LogFormat{
		logging.LogFormatText,
		logging.LogFormatJSON,
		logging.LogFormatCustom,
	}

	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			logger, err := logging.NewLogger(&logging.LoggerConfig{
				Level:     logging.LogLevelInfo,
				Format:    format,
				OutputDir: t.TempDir(),
				MaxFiles:  5,
				MaxSize:   1024 * 1024,
				Timestamp: true,
				Colors:    false,
			})
			require.NoError(t, err)
			defer logger.Close()

			logger.Info("Test message", map[string]interface{}{
				"test_key": "test_value",
				"number":   42,
			})
		})
	}
}

func TestPipelineLogging(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelDebug,
		Format:    logging.LogFormatCustom,
		OutputDir: dir,
		MaxFiles:  5,
		MaxSize:   1024 * 1024,
		Timestamp: true,
		Colors:    false,
	})
	require.NoError(t, err)
	defer logger.Close()

	logger.LogDocumentSkipped("corpus/doc-1.html", errors.New("document declares no encoding"))
	logger.LogDocumentAccepted("corpus/doc-2.html", "utf-8")
	logger.LogTraining(42, []string{"utf-8", "windows-1250"})
	logger.LogValidation(10, 0.95)
	logger.LogModelSaved("models/czech.model", []string{"utf-8", "windows-1250"})

	// One timestamped log file holds the output
	files, err := filepath.Glob(filepath.Join(dir, "chared_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "Document skipped")
	assert.Contains(t, string(content), "[SKIP]")
	assert.Contains(t, string(content), "[TRAIN]")
	assert.Contains(t, string(content), "Model saved")
}

func TestLogManagerRotation(t *testing.T) {
	dir := t.TempDir()
	manager := logging.NewLogManager(dir, 10, 64, true)

	// One file over the size limit, one under
	big := filepath.Join(dir, "chared_2026-01-01_10-00-00.log")
	small := filepath.Join(dir, "chared_2026-01-01_11-00-00.log")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("x", 200)), 0644))
	require.NoError(t, os.WriteFile(small, []byte("short"), 0644))

	require.NoError(t, manager.RotateLogs())

	// The oversized file was rotated away and compressed
	_, err := os.Stat(big)
	assert.True(t, os.IsNotExist(err))
	compressed, err := filepath.Glob(filepath.Join(dir, "chared_2026-01-01_10-00-00.log.*.gz"))
	require.NoError(t, err)
	assert.Len(t, compressed, 1)

	// The small file stays put
	_, err = os.Stat(small)
	assert.NoError(t, err)
}

func TestLogManagerCleanup(t *testing.T) {
	dir := t.TempDir()
	manager := logging.NewLogManager(dir, 3, 1024*1024, false)

	names := []string{
		"chared_2026-01-01_10-00-00.log",
		"chared_2026-01-01_11-00-00.log",
		"chared_2026-01-01_12-00-00.log",
		"chared_2026-01-01_13-00-00.log",
		"chared_2026-01-01_14-00-00.log",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("entry"), 0644))
	}

	require.NoError(t, manager.CleanupOldLogs())

	files, err := filepath.Glob(filepath.Join(dir, "chared_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestLogManagerStats(t *testing.T) {
	dir := t.TempDir()
	manager := logging.NewLogManager(dir, 10, 1024*1024, false)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chared_2026-01-01_10-00-00.log"), []byte("plain"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chared_2026-01-01_11-00-00.log.gz"), []byte("gz"), 0644))

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 1, stats.CompressedFiles)
	assert.Equal(t, 1, stats.UncompressedFiles)
	assert.Equal(t, int64(7), stats.TotalSize)
}

func TestCustomFormatter(t *testing.T) {
	formatter := &logging.CustomFormatter{
		Timestamp: true,
		Colors:    false,
	}

	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Message: "Document skipped",
		Time:    time.Now(),
		Data: logrus.Fields{
			"source": "corpus/doc.html",
		},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "WARNING")
	assert.Contains(t, s, "[SKIP]")
	assert.Contains(t, s, "Document skipped")
	assert.Contains(t, s, "source=corpus/doc.html")
}
