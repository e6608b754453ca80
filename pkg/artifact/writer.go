package artifact

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/TomasBahnik/kube-helpers/pkg/defaults"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// FileWriter writes artifact files and records them on a result.
type FileWriter struct {
	result *Result
}

// NewFileWriter creates a file writer tracking files on result.
func NewFileWriter(result *Result) *FileWriter {
	return &FileWriter{result: result}
}

// WriteFile writes content to path with the given permissions and
// records the file on the result.
func (w *FileWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, content, perm); err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "writing %s", path)
	}

	w.result.AddFile(path, int64(len(content)))

	slog.Debug("file written",
		"path", path,
		"size_bytes", len(content),
		"permissions", perm,
	)

	return nil
}

// WriteFileString writes string content to path.
func (w *FileWriter) WriteFileString(path, content string, perm os.FileMode) error {
	return w.WriteFile(path, []byte(content), perm)
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "creating directory %s", dir)
	}
	return nil
}

// ComputeChecksum computes the SHA256 checksum of content.
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ChecksumGenerator renders a checksum manifest over a result's files.
type ChecksumGenerator struct {
	result *Result
}

// NewChecksumGenerator creates a checksum generator for result.
func NewChecksumGenerator(result *Result) *ChecksumGenerator {
	return &ChecksumGenerator{result: result}
}

// Generate returns the checksum manifest for all files recorded on the
// result, with paths relative to outputDir. The checksums file itself
// is skipped when present.
func (g *ChecksumGenerator) Generate(outputDir, title string) (string, error) {
	var content bytes.Buffer
	content.WriteString(fmt.Sprintf("# %s Checksums (SHA256)\n", title))
	content.WriteString(fmt.Sprintf("# Generated: %s\n\n", g.result.GeneratedAt()))

	for _, file := range g.result.Files {
		if filepath.Base(file) == defaults.ChecksumsFile {
			continue
		}

		fileContent, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeInternal, err, "reading %s for checksum", file)
		}

		checksum := ComputeChecksum(fileContent)

		relPath, err := filepath.Rel(outputDir, file)
		if err != nil {
			relPath = filepath.Base(file)
		}

		content.WriteString(fmt.Sprintf("%s  %s\n", checksum, relPath))
	}

	return content.String(), nil
}
