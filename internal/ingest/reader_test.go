package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OrderAndSources(t *testing.T) {
	dir := t.TempDir()
	refDir := filepath.Join(dir, "refs")
	if err := os.Mkdir(refDir, 0755); err != nil {
		t.Fatal(err)
	}

	filePath := writeFile(t, dir, "standalone.txt", "File document.")
	writeFile(t, refDir, "b.txt", "Directory document two.")
	writeFile(t, refDir, "a.txt", "Directory document one.")

	docs, err := Load(Sources{
		Inline: []string{"Inline document."},
		Files:  []string{filePath},
		Dir:    refDir,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{
		"Inline document.",
		"File document.",
		"Directory document one.",
		"Directory document two.",
	}
	if len(docs) != len(want) {
		t.Fatalf("got %d documents, want %d: %v", len(docs), len(want), docs)
	}
	for i := range want {
		if docs[i] != want[i] {
			t.Errorf("document %d = %q, want %q", i, docs[i], want[i])
		}
	}
}

func TestLoadFile_StripsHTML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.html",
		`<html><body><script>bad()</script><p>The tower opened in 1889.</p></body></html>`)

	text, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if text != "The tower opened in 1889." {
		t.Errorf("LoadFile() = %q", text)
	}
}

func TestLoadFile_SniffsMarkupWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.txt",
		`<html><body><p>Sniffed content.</p></body></html>`)

	text, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if text != "Sniffed content." {
		t.Errorf("markup should be stripped even in a .txt file: %q", text)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/doc.txt")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "/nonexistent/doc.txt") {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestLoadDir_SkipsUnreadableEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "Kept.")
	writeFile(t, dir, "data.json", `{"skipped": true}`)
	writeFile(t, dir, ".hidden.txt", "Skipped.")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if len(docs) != 1 || docs[0] != "Kept." {
		t.Errorf("LoadDir() = %v, want just the .txt document", docs)
	}
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir("/nonexistent/refs")
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestSources_Empty(t *testing.T) {
	if !(Sources{}).Empty() {
		t.Error("zero Sources should be empty")
	}
	if (Sources{Inline: []string{"x"}}).Empty() {
		t.Error("inline text should count")
	}
	if (Sources{Dir: "refs"}).Empty() {
		t.Error("a directory should count")
	}
}
