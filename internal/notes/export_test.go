package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/tome/internal/book"
	"github.com/lepinkainen/tome/internal/testutil"
)

func strPtr(s string) *string { return &s }

func foreverWar() book.Book {
	pages := 240
	return book.Book{
		ID:            "qm2PPwAACAAJ",
		Title:         strPtr("The Forever War"),
		Authors:       []string{"Joe Haldeman"},
		Publisher:     strPtr("Gollancz"),
		PublishedDate: strPtr("2010-01-01"),
		Description:   strPtr("A reluctant conscript drafted into an elite military unit."),
		PageCount:     &pages,
		Categories:    []string{"Fiction / General"},
		Language:      strPtr("en"),
		ISBN10:        strPtr("0575094141"),
		ISBN13:        strPtr("9780575094147"),
		Thumbnail:     strPtr("http://books.google.com/books/content?id=qm2PPwAACAAJ"),
		Read:          true,
		Added:         "2026-09-01",
	}
}

func TestFromBookFrontmatter(t *testing.T) {
	note := FromBook(foreverWar())

	data, err := note.Build()
	require.NoError(t, err)

	content := string(data)
	require.True(t, strings.HasPrefix(content, "---\n"))

	// Frontmatter must be valid YAML.
	parts := strings.SplitN(content, "---\n", 3)
	require.Len(t, parts, 3)

	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))

	assert.Equal(t, "The Forever War", fm["title"])
	assert.Equal(t, "book", fm["type"])
	assert.Equal(t, "qm2PPwAACAAJ", fm["volume_id"])
	assert.Equal(t, true, fm["read"])
	assert.Equal(t, "2010-01-01", fm["published"])
	assert.Equal(t, 240, fm["pages"])
	assert.Equal(t, "9780575094147", fm["isbn13"])
	assert.Equal(t, []any{"Joe Haldeman"}, fm["authors"])

	assert.Contains(t, content, "# The Forever War")
	assert.Contains(t, content, "![cover](http://books.google.com/books/content?id=qm2PPwAACAAJ)")
	assert.Contains(t, content, "A reluctant conscript")
}

func TestFromBookSkipsAbsentFields(t *testing.T) {
	note := FromBook(book.Book{ID: "bare", Authors: []string{}, Categories: []string{}})

	data, err := note.Build()
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "publisher")
	assert.NotContains(t, content, "isbn")
	assert.NotContains(t, content, "authors")
	assert.NotContains(t, content, "![cover]")

	// Untitled records fall back to the volume ID.
	assert.Contains(t, content, "title: bare")
}

func TestFrontmatterKeysSorted(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("zebra", 1)
	fm.Set("alpha", 2)
	fm.Set("mango", 3)

	assert.Equal(t, []string{"alpha", "mango", "zebra"}, fm.Keys())

	// Re-setting an existing key keeps the order stable.
	fm.Set("mango", 4)
	assert.Equal(t, []string{"alpha", "mango", "zebra"}, fm.Keys())

	val, ok := fm.Get("mango")
	require.True(t, ok)
	assert.Equal(t, 4, val)
}

func TestExportWritesOneFilePerBook(t *testing.T) {
	env := testutil.NewTestEnv(t)

	b2 := foreverWar()
	b2.ID = "other"
	b2.Title = strPtr("Dune: Messiah")

	written, err := Export([]book.Book{foreverWar(), b2}, env.RootDir(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	env.RequireFileExists("The Forever War.md")
	env.RequireFileExists("Dune - Messiah.md")

	content := env.ReadFileString("The Forever War.md")
	assert.Contains(t, content, "volume_id: qm2PPwAACAAJ")
}

func TestExportSkipsExistingWithoutOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)

	books := []book.Book{foreverWar()}

	written, err := Export(books, env.RootDir(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	written, err = Export(books, env.RootDir(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	written, err = Export(books, env.RootDir(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
}
