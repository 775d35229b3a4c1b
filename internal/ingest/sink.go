package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"phishtakedown/internal/models"
)

// WriteFindings writes findings to w as newline-delimited JSON, in order.
// It returns the number of records written.
func WriteFindings(w io.Writer, findings []models.Finding) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for i, f := range findings {
		if err := enc.Encode(f); err != nil {
			return i, fmt.Errorf("encode finding %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("flush findings: %w", err)
	}

	return len(findings), nil
}

// PersistFile replaces the file at path with findings. The records go to a
// temporary file in the same directory which is renamed over path only after
// a successful sync, so a failed run never leaves a partial file at path.
func PersistFile(path string, findings []models.Finding) (int, error) {
	fail := func(err error) (int, error) {
		return 0, &IOFailure{Op: OpOutputUnwritable, Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fail(err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := WriteFindings(tmp, findings)
	if err != nil {
		return fail(err)
	}

	if err := tmp.Sync(); err != nil {
		return fail(err)
	}

	if err := tmp.Close(); err != nil {
		return fail(err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return fail(err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fail(err)
	}

	committed = true

	return n, nil
}
