// Package metadata records and verifies run manifests for findings files.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"phishtakedown/internal/models"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = "1"

// Manifest verification errors.
var (
	ErrOutputMissing    = errors.New("output file missing")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrNoChecksum       = errors.New("no checksum in manifest")
)

// Manifest describes one discovery run and the file it produced.
type Manifest struct {
	Version    string                 `json:"version"`
	RunID      string                 `json:"run_id"`
	Input      string                 `json:"input"`
	Output     string                 `json:"output"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Report     models.IngestionReport `json:"report"`
	Written    int                    `json:"written"`
	SHA256     string                 `json:"sha256"`
}

// FileChecksum computes the SHA-256 hash of the file at path.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sign fills in the checksum of the manifest's output file.
func (m *Manifest) Sign() error {
	sum, err := FileChecksum(m.Output)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrOutputMissing, m.Output)
		}

		return err
	}

	m.Version = ManifestVersion
	m.SHA256 = sum

	return nil
}

// Path returns where the manifest is stored under runsDir.
func (m *Manifest) Path(runsDir string) string {
	return filepath.Join(runsDir, m.RunID+".json")
}

// Write stores the manifest as indented JSON under runsDir and returns its path.
func (m *Manifest) Write(runsDir string) (string, error) {
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create runs dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := m.Path(runsDir)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return path, nil
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks that the output file still matches the manifest checksum.
func Verify(m *Manifest) error {
	if m.SHA256 == "" {
		return ErrNoChecksum
	}

	sum, err := FileChecksum(m.Output)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrOutputMissing, m.Output)
		}

		return err
	}

	if sum != m.SHA256 {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, m.SHA256, sum)
	}

	return nil
}
