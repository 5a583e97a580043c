package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docgrab/docgrab/internal/model"
)

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// WritePageFiles writes each page to its own markdown file under dir,
// named by the page title's slug. Colliding slugs get a numeric suffix
// in page order, so two pages titled "Overview" become overview.md and
// overview-2.md. Returns the written paths in page order.
func WritePageFiles(dir string, pages []*model.Page) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	paths := make([]string, 0, len(pages))
	used := make(map[string]int, len(pages))

	for _, page := range pages {
		slug := Slug(page.Title)
		used[slug]++
		if n := used[slug]; n > 1 {
			slug = fmt.Sprintf("%s-%d", slug, n)
		}

		content, err := PageMarkdown(page)
		if err != nil {
			return paths, fmt.Errorf("failed to render page %s: %w", page.URL, err)
		}

		path := filepath.Join(dir, slug+".md")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return paths, fmt.Errorf("failed to write page file: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
