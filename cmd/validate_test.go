package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeValidateDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestValidateTreeScansLoaderLayout(t *testing.T) {
	dir := t.TempDir()
	writeValidateDoc(t, filepath.Join(dir, "core"), "broken.yaml", "{{{not yaml")
	writeValidateDoc(t, filepath.Join(dir, "core"), "tone.yaml", `
name: Tone
template:
  instruction: "Adjust your tone."
`)
	writeValidateDoc(t, filepath.Join(dir, "extensions"), "concise.yaml", `
name: Concise
template:
  instruction: "Be concise."
`)
	writeValidateDoc(t, dir, "root.yaml", `
name: Root
template:
  instruction: "From the base directory."
`)

	checked, failed, err := validateTree(dir)
	if err != nil {
		t.Fatalf("validateTree: %v", err)
	}
	if checked != 4 {
		t.Fatalf("expected 4 documents checked, got %d", checked)
	}
	if failed != 1 {
		t.Fatalf("expected the malformed core/ document to fail, got %d failures", failed)
	}
}

func TestValidateTreeMissingSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeValidateDoc(t, dir, "only.yaml", `
name: Only
template:
  instruction: "Only."
`)

	checked, failed, err := validateTree(dir)
	if err != nil {
		t.Fatalf("validateTree: %v", err)
	}
	if checked != 1 || failed != 0 {
		t.Fatalf("expected 1 checked / 0 failed, got %d / %d", checked, failed)
	}
}

func TestValidateTreeMissingDir(t *testing.T) {
	if _, _, err := validateTree(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
