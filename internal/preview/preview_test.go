package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pageforge/internal/foundation/errors"
	"pageforge/internal/workspace"
)

func writeTree(t *testing.T, root, repo string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, repo, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func TestBuildAssemblesPage(t *testing.T) {
	ws := workspace.NewManager(t.TempDir())
	writeTree(t, ws.Root(), "demo-app", map[string]string{
		"index.html": "<!doctype html><html><head><title>Captcha Solver</title></head><body></body></html>",
		"styles.css": "body{margin:0}",
		"README.md":  "# Demo\n\nThis is **generated**.",
		".git/HEAD":  "ref: refs/heads/main",
		".github/workflows/pages.yml": "name: pages",
	})

	svc := NewService(ws)
	page, err := svc.Build("demo-app")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if page.Title != "Captcha Solver" {
		t.Errorf("title = %q, want %q", page.Title, "Captcha Solver")
	}
	if !strings.Contains(string(page.ReadmeHTML), "<strong>generated</strong>") {
		t.Errorf("readme HTML missing rendered markdown: %s", page.ReadmeHTML)
	}

	want := []string{".github/workflows/pages.yml", "README.md", "index.html", "styles.css"}
	if len(page.Files) != len(want) {
		t.Fatalf("files = %v, want %v", page.Files, want)
	}
	for i, f := range want {
		if page.Files[i] != f {
			t.Errorf("files[%d] = %q, want %q", i, page.Files[i], f)
		}
	}
	for _, f := range page.Files {
		if strings.HasPrefix(f, ".git/") {
			t.Errorf("file listing includes git internals: %s", f)
		}
	}
}

func TestBuildMissingRepository(t *testing.T) {
	svc := NewService(workspace.NewManager(t.TempDir()))

	_, err := svc.Build("never-built")
	if err == nil {
		t.Fatal("expected error for missing repository")
	}
	if !errors.HasCategory(err, errors.CategoryNotFound) {
		t.Errorf("category = %v, want not_found", errors.GetCategory(err))
	}
}

func TestBuildTitleFallsBackToRepoName(t *testing.T) {
	ws := workspace.NewManager(t.TempDir())
	writeTree(t, ws.Root(), "bare-repo", map[string]string{
		"README.md": "plain",
	})

	page, err := NewService(ws).Build("bare-repo")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if page.Title != "bare-repo" {
		t.Errorf("title = %q, want repository name", page.Title)
	}
}

func TestRender(t *testing.T) {
	ws := workspace.NewManager(t.TempDir())
	writeTree(t, ws.Root(), "demo-app", map[string]string{
		"index.html": "<html><head><title>Demo</title></head></html>",
		"README.md":  "# Heading",
	})

	page, err := NewService(ws).Build("demo-app")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var sb strings.Builder
	if err := Render(&sb, page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "<h1>Demo</h1>") {
		t.Errorf("rendered page missing title heading:\n%s", out)
	}
	if !strings.Contains(out, "<h1>Heading</h1>") {
		t.Errorf("rendered page missing README content:\n%s", out)
	}
	if !strings.Contains(out, "<li>index.html</li>") {
		t.Errorf("rendered page missing file listing:\n%s", out)
	}
}
