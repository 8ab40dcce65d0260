// =============================================================================
// Proforma Generator - File Manager
// =============================================================================
//
// This module handles all file system operations for generated documents:
//   - Ensuring output and archive directories exist
//   - Building output file names from the configured format string
//   - Writing documents atomically (temp file + rename)
//   - Archiving generated documents
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY OPERATIONS
// =============================================================================

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("empty directory path")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// BuildOutputFileName expands the output name format for one document.
//
// Supported placeholders:
//   {operation} - The uppercased operation id
//   {timestamp} - Current timestamp as YYYYMMDD_HHMMSS
//   {uuid}      - A random UUID
//
// The default format "FacturaProforma_{operation}.pdf" is the documented
// file name contract; the extra placeholders exist for deployments that
// need unique names per run.
func BuildOutputFileName(format, operation string) string {
	name := format
	name = strings.ReplaceAll(name, "{operation}", operation)
	name = strings.ReplaceAll(name, "{timestamp}", time.Now().Format("20060102_150405"))
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	return name
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// WriteFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so readers never observe a partial
// document.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// ArchiveFile copies a generated document into the archive directory. When
// a file with the same name is already archived, a numeric suffix is added
// instead of overwriting.
func ArchiveFile(path, archiveDir string) (string, error) {
	if err := EnsureDir(archiveDir); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	target := filepath.Join(archiveDir, filepath.Base(path))
	target = uniquePath(target)
	if err := WriteFileAtomic(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// uniquePath returns path, or path with "_1", "_2", ... inserted before the
// extension until it does not collide with an existing file.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
