// =============================================================================
// Proforma Generator - Logging Setup
// =============================================================================
//
// Central logrus logger shared by all modules. The logger is usable before
// InitLogger runs (text formatter, info level, stdout); InitLogger reapplies
// the settings from the loaded configuration.
//
// =============================================================================

package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// GetLogger returns the shared application logger.
func GetLogger() *logrus.Logger {
	return logg
}

// InitLogger applies the logging settings from the configuration to the
// shared logger. When a log file is configured, output goes to both stdout
// and the file.
func InitLogger(cfg *MainConfig) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logg.SetLevel(level)

	if cfg.LogFormat == "json" {
		logg.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return err
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logg.SetOutput(io.MultiWriter(os.Stdout, file))
	}

	return nil
}

// LogError logs an error with module / function context fields. Mirrors how
// every module reports failures so log lines stay greppable.
func LogError(logger *logrus.Logger, moduleName, funcName, context string, err error) {
	logger.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}).Error(err.Error())
}
