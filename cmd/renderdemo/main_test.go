package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunWritesPNGAndJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "resume.png")
	if err := run(out, "", "missing-font.ttf"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(out), "sample_resume.json")); err != nil {
		t.Fatalf("expected json copy: %v", err)
	}
}

func TestRunRejectsNonObjectInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	if err := os.WriteFile(input, []byte(`["x"]`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := run(filepath.Join(dir, "out.png"), input, ""); err == nil {
		t.Fatal("expected error for non-object input")
	}
}
