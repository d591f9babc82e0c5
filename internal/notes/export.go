package notes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/tome/internal/book"
	"github.com/lepinkainen/tome/internal/fileutil"
)

// FromBook builds a markdown note for one book: catalog metadata in the
// frontmatter, description and thumbnail in the body.
func FromBook(b book.Book) *Note {
	fm := NewFrontmatter()

	fm.Set("title", b.DisplayTitle())
	fm.Set("type", "book")
	fm.Set("volume_id", b.ID)
	fm.Set("read", b.Read)

	if b.Added != "" {
		fm.Set("date_added", b.Added)
	}
	if b.PublishedDate != nil {
		fm.Set("published", *b.PublishedDate)
	}
	if b.Publisher != nil && *b.Publisher != "" {
		fm.Set("publisher", *b.Publisher)
	}
	if b.PageCount != nil && *b.PageCount > 0 {
		fm.Set("pages", *b.PageCount)
	}
	if b.Language != nil && *b.Language != "" {
		fm.Set("language", *b.Language)
	}
	if b.ISBN10 != nil {
		fm.Set("isbn10", *b.ISBN10)
	}
	if b.ISBN13 != nil {
		fm.Set("isbn13", *b.ISBN13)
	}
	if len(b.Authors) > 0 {
		fm.Set("authors", b.Authors)
	}
	if len(b.Categories) > 0 {
		fm.Set("categories", b.Categories)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "\n# %s\n", b.DisplayTitle())
	if b.Thumbnail != nil && *b.Thumbnail != "" {
		fmt.Fprintf(&body, "\n![cover](%s)\n", *b.Thumbnail)
	}
	if b.Description != nil && *b.Description != "" {
		fmt.Fprintf(&body, "\n%s\n", *b.Description)
	}

	return &Note{Frontmatter: fm, Body: body.String()}
}

// Export writes one markdown file per book into outputDir and returns how
// many files were written. Existing files are skipped unless overwrite is
// set.
func Export(books []book.Book, outputDir string, overwrite bool) (int, error) {
	written := 0
	for _, b := range books {
		note := FromBook(b)
		data, err := note.Build()
		if err != nil {
			return written, fmt.Errorf("failed to build note for %q: %w", b.DisplayTitle(), err)
		}

		path := fileutil.MarkdownFilePath(b.DisplayTitle(), outputDir)
		ok, err := fileutil.WriteFileWithOverwrite(path, data, 0644, overwrite)
		if err != nil {
			return written, fmt.Errorf("failed to write note %q: %w", path, err)
		}
		if !ok {
			slog.Debug("Note already exists, skipping", "path", path)
			continue
		}

		slog.Debug("Wrote note", "path", path)
		written++
	}
	return written, nil
}
