package generate

import (
	"fmt"
	"os"
	"path/filepath"
)

// WorkflowPath is where the Pages deploy workflow lives inside a
// generated repository.
const WorkflowPath = ".github/workflows/pages.yml"

// pagesWorkflow deploys the repository root to GitHub Pages on every
// push to main.
const pagesWorkflow = `name: Deploy to GitHub Pages
on:
  push:
    branches: ["main"]
permissions:
  contents: read
  pages: write
  id-token: write
concurrency:
  group: "pages"
  cancel-in-progress: true
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - name: Checkout
        uses: actions/checkout@v4
      - name: Upload artifact
        uses: actions/upload-pages-artifact@v3
        with:
          path: .
  deploy:
    needs: build
    runs-on: ubuntu-latest
    permissions:
      pages: write
      id-token: write
    environment:
      name: github-pages
      url: ${{ steps.deployment.outputs.page_url }}
    steps:
      - name: Deploy to GitHub Pages
        id: deployment
        uses: actions/deploy-pages@v4
`

// AddWorkflow writes the Pages deploy workflow under root. Existing
// content is overwritten so the workflow cannot drift between rounds.
func AddWorkflow(root string) error {
	target := filepath.Join(root, filepath.FromSlash(WorkflowPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create workflow directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(pagesWorkflow), 0o644); err != nil {
		return fmt.Errorf("write workflow: %w", err)
	}
	return nil
}
