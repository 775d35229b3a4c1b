package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phishtakedown/pkg/metadata"
)

func signedManifest(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()

	output := filepath.Join(dir, "findings.jsonl")
	if err := os.WriteFile(output, []byte("{\"url\":\"https://example.com\"}\n"), 0644); err != nil {
		t.Fatalf("write output: %v", err)
	}

	m := &metadata.Manifest{RunID: "run-1", Output: output, Written: 1}
	if err := m.Sign(); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	path, err := m.Write(filepath.Join(dir, ".runs"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	return path, output
}

func TestRun_Verified(t *testing.T) {
	path, _ := signedManifest(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-manifest", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d; stderr:\n%s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "OK: 1 findings") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_Tampered(t *testing.T) {
	path, output := signedManifest(t)

	if err := os.WriteFile(output, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-manifest", path}, &stdout, &stderr); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}

	if !strings.Contains(stderr.String(), "checksum mismatch") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
}
