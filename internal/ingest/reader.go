package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions accepted when loading a reference directory
var readableExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// Sources describes where reference documents come from. Load preserves
// the order inline texts, then files, then directory entries.
type Sources struct {
	Inline []string // Reference text given directly on the command line
	Files  []string // Paths of individual reference files
	Dir    string   // Directory whose readable files all become references
}

// Empty reports whether no reference source was given
func (s Sources) Empty() bool {
	return len(s.Inline) == 0 && len(s.Files) == 0 && s.Dir == ""
}

// Load resolves sources into reference document texts. Document order is
// stable across runs, so provenance indices in results stay meaningful.
func Load(s Sources) ([]string, error) {
	var docs []string

	docs = append(docs, s.Inline...)

	for _, path := range s.Files {
		text, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, text)
	}

	if s.Dir != "" {
		fromDir, err := LoadDir(s.Dir)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fromDir...)
	}

	return docs, nil
}

// LoadFile reads one reference document. Markup is stripped when the file
// carries an HTML extension or the content plainly looks like HTML.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference %s: %w", path, err)
	}

	text := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" || LooksLikeHTML(text) {
		text = StripHTML(text)
	}

	return strings.TrimSpace(text), nil
}

// LoadDir loads every readable file in dir, in name order. Subdirectories
// and files with unrecognized extensions are skipped.
func LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read reference directory %s: %w", dir, err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !readableExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		text, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, text)
	}

	return docs, nil
}
