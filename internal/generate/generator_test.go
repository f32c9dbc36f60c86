package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pageforge/internal/config"
)

type stubProvider struct {
	files []File
	err   error
}

func (s *stubProvider) Propose(_ context.Context, _ string) ([]File, error) {
	return s.files, s.err
}

func readGenerated(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestGenerateWithoutProviderUsesTemplate(t *testing.T) {
	g := NewGenerator(config.GeneratorConfig{})
	dir := t.TempDir()

	res, err := g.Generate(context.Background(), dir, "solve captchas", "https://img.example/c.png")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}

	index := readGenerated(t, dir, "index.html")
	if !strings.Contains(index, "Captcha Solver") {
		t.Errorf("template title missing from index.html")
	}
	if !strings.Contains(index, `q.get('url')||"https://img.example/c.png"`) {
		t.Errorf("default image URL not baked into index.html")
	}
	if css := readGenerated(t, dir, "styles.css"); !strings.Contains(css, "font-family:system-ui") {
		t.Errorf("unexpected stylesheet content %q", css)
	}
}

func TestGenerateWithoutAttachmentLeavesURLEmpty(t *testing.T) {
	g := NewGenerator(config.GeneratorConfig{})
	dir := t.TempDir()

	if _, err := g.Generate(context.Background(), dir, "solve captchas", ""); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if index := readGenerated(t, dir, "index.html"); !strings.Contains(index, `q.get('url')||""`) {
		t.Errorf("expected empty default URL in index.html")
	}
}

func TestGenerateUsesProviderFiles(t *testing.T) {
	g := NewGeneratorWithProvider(&stubProvider{files: []File{
		{Path: "index.html", Content: "<html>custom</html>"},
		{Path: "assets/app.js", Content: "console.log('hi')"},
	}})
	dir := t.TempDir()

	res, err := g.Generate(context.Background(), dir, "solve captchas", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != SourceLLM {
		t.Fatalf("expected llm source, got %s", res.Source)
	}
	if got := readGenerated(t, dir, "index.html"); got != "<html>custom</html>" {
		t.Errorf("provider content not written, got %q", got)
	}
	if got := readGenerated(t, dir, "assets/app.js"); got != "console.log('hi')" {
		t.Errorf("nested provider file not written, got %q", got)
	}
}

func TestGenerateAlwaysWritesWorkflow(t *testing.T) {
	cases := []struct {
		name string
		gen  *Generator
	}{
		{"fallback", NewGenerator(config.GeneratorConfig{})},
		{"provider", NewGeneratorWithProvider(&stubProvider{files: []File{{Path: "index.html", Content: "x"}}})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if _, err := tc.gen.Generate(context.Background(), dir, "brief", ""); err != nil {
				t.Fatalf("generate: %v", err)
			}
			wf := readGenerated(t, dir, WorkflowPath)
			if !strings.HasPrefix(wf, "name: Deploy to GitHub Pages\n") {
				t.Errorf("workflow header missing")
			}
			if !strings.Contains(wf, "actions/deploy-pages@v4") {
				t.Errorf("deploy action missing from workflow")
			}
			if !strings.Contains(wf, `group: "pages"`) {
				t.Errorf("concurrency group missing from workflow")
			}
		})
	}
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	g := NewGeneratorWithProvider(&stubProvider{err: os.ErrDeadlineExceeded})
	dir := t.TempDir()

	res, err := g.Generate(context.Background(), dir, "brief", "")
	if err != nil {
		t.Fatalf("generate must absorb provider errors, got: %v", err)
	}
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}
}

func TestGenerateFallsBackOnEmptyProposal(t *testing.T) {
	g := NewGeneratorWithProvider(&stubProvider{files: nil})
	dir := t.TempDir()

	res, err := g.Generate(context.Background(), dir, "brief", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}
}

func TestGenerateFallsBackOnUnsafeProposal(t *testing.T) {
	g := NewGeneratorWithProvider(&stubProvider{files: []File{
		{Path: "../evil.html", Content: "gotcha"},
	}})
	parent := t.TempDir()
	dir := filepath.Join(parent, "site")

	res, err := g.Generate(context.Background(), dir, "brief", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}
	if _, err := os.Stat(filepath.Join(parent, "evil.html")); !os.IsNotExist(err) {
		t.Errorf("unsafe file escaped the repository tree")
	}
}
