// Package preview renders an operator-facing overview of a generated
// repository: the page title, the rendered README and the file listing.
// It reads straight from the workspace tree, so the preview reflects the
// last build even before the Pages deployment finishes.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"pageforge/internal/foundation/errors"
	"pageforge/internal/workspace"
)

// Page is the assembled preview of one repository tree.
type Page struct {
	Repository string
	Title      string
	ReadmeHTML template.HTML
	Files      []string
}

// Service builds previews from workspace trees.
type Service struct {
	ws *workspace.Manager
}

// NewService creates a preview service over the workspace.
func NewService(ws *workspace.Manager) *Service { return &Service{ws: ws} }

// Build assembles the preview for a repository. A repository that was
// never built yields a not-found error.
func (s *Service) Build(repoName string) (*Page, error) {
	dir := s.ws.TreePath(repoName)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, errors.NewError(errors.CategoryNotFound, fmt.Sprintf("repository %s has not been built", repoName)).
			WithSeverity(errors.SeverityWarning).
			Build()
	}

	page := &Page{Repository: repoName, Title: repoName}

	if f, err := os.Open(filepath.Join(dir, "index.html")); err == nil {
		if title, terr := pageTitle(f); terr == nil && title != "" {
			page.Title = title
		}
		_ = f.Close()
	}

	if data, err := os.ReadFile(filepath.Join(dir, "README.md")); err == nil {
		var buf bytes.Buffer
		if err := goldmark.Convert(data, &buf); err == nil {
			page.ReadmeHTML = template.HTML(buf.String())
		}
	}

	files, err := listFiles(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, fmt.Sprintf("list files for %s", repoName)).Build()
	}
	page.Files = files

	return page, nil
}

// pageTitle extracts the first <title> text from an HTML document.
func pageTitle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, nil
}

// listFiles returns the repository files as sorted slash paths, skipping
// the .git directory.
func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Repository: {{.Repository}}</p>
<nav><ul>
{{- range .Files}}
<li>{{.}}</li>
{{- end}}
</ul></nav>
<article>{{.ReadmeHTML}}</article>
</body>
</html>
`))

// Render writes the preview page as HTML.
func Render(w io.Writer, p *Page) error {
	return pageTemplate.Execute(w, p)
}
