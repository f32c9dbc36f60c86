package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a single site file to materialize, with a slash-separated path
// relative to the repository root.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// safeRelPath normalizes a proposed file path and rejects anything that
// would escape the repository tree.
func safeRelPath(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("absolute path %q not allowed", p)
	}
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the repository root", p)
	}
	return clean, nil
}

// validFiles reports whether every proposed file has a usable path.
func validFiles(files []File) bool {
	for _, f := range files {
		if _, err := safeRelPath(f.Path); err != nil {
			return false
		}
	}
	return true
}

// WriteFiles materializes the files under root, creating parent
// directories as needed.
func WriteFiles(root string, files []File) error {
	for _, f := range files {
		rel, err := safeRelPath(f.Path)
		if err != nil {
			return err
		}
		target := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return fmt.Errorf("create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	return nil
}
