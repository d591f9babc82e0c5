package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/tome/internal/book"
	"github.com/lepinkainen/tome/internal/catalog"
	"github.com/lepinkainen/tome/internal/config"
	"github.com/lepinkainen/tome/internal/importer"
)

func resetCmdState(t *testing.T) {
	origDB := config.DatabaseFile
	origCovers := config.DownloadCovers

	t.Cleanup(func() {
		config.DatabaseFile = origDB
		config.DownloadCovers = origCovers
		viper.Reset()
	})

	viper.Reset()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"tome"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tome"),
		kong.Description("A personal book catalogue fed by Google Books lookups."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

// useTempDatabase points the global config at a fresh database file.
func useTempDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tome.db")
	config.SetDatabaseFile(path)
	return path
}

func seedBook(t *testing.T, title string, read bool) {
	t.Helper()

	store, err := openStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	isbn := "9780575094147"
	_, err = store.Insert(book.Book{
		ID:     "id-" + title,
		Title:  &title,
		ISBN13: &isbn,
	}, read)
	require.NoError(t, err)
}

func TestAddCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "add", "978-0-575-09414-7", "--read")

	assert.Equal(t, "978-0-575-09414-7", cli.Add.ISBN)
	assert.True(t, cli.Add.Read)
}

func TestCLIDefaultFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "list")

	assert.Equal(t, "./tome.db", cli.DB, "DB should default to ./tome.db")
	assert.False(t, cli.NoCovers, "NoCovers should default to false")
	assert.False(t, cli.List.Read)
	assert.False(t, cli.List.Unread)
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{DB: "/tmp/books.db", NoCovers: true}
	config.DownloadCovers = true

	updateGlobalConfig(cli)

	assert.Equal(t, "/tmp/books.db", config.DatabaseFile)
	assert.False(t, config.DownloadCovers)
}

func TestUpdateGlobalConfigKeepsCovers(t *testing.T) {
	resetCmdState(t)

	config.DownloadCovers = true
	updateGlobalConfig(&CLI{DB: "./tome.db"})

	assert.True(t, config.DownloadCovers, "covers stay enabled unless --no-covers is given")
}

func TestListCommandRejectsConflictingFilters(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	cli, ctx := parseCLI(t, "list", "--read", "--unread")
	updateGlobalConfig(cli)
	err := ctx.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestListCommandEmptyCatalog(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	_, ctx := parseCLI(t, "list")
	require.NoError(t, ctx.Run())
}

func TestListTitlesFlag(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)
	seedBook(t, "The Forever War", true)

	cli, ctx := parseCLI(t, "list", "--titles", "--read")
	assert.True(t, cli.List.Titles)
	require.NoError(t, ctx.Run())
}

func TestDeleteCommandRequiresSelector(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	_, ctx := parseCLI(t, "delete")
	err := ctx.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title or --isbn")
}

func TestDeleteCommandByISBN(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)
	seedBook(t, "The Forever War", false)

	// Hyphenated input matches the normalized stored ISBN.
	_, ctx := parseCLI(t, "delete", "--isbn", "978-0-575-09414-7")
	require.NoError(t, ctx.Run())

	store, err := openStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	books, err := store.List(nil)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestDeleteCommandAbsentBook(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	_, ctx := parseCLI(t, "delete", "--title", "Nonexistent")
	err := ctx.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stored book")
}

func TestToggleCommand(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)
	seedBook(t, "The Forever War", false)

	_, ctx := parseCLI(t, "toggle", "The Forever War")
	require.NoError(t, ctx.Run())

	store, err := openStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	books, err := store.List(nil)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.True(t, books[0].Read)
}

func TestToggleCommandAbsentBook(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	_, ctx := parseCLI(t, "toggle", "Nonexistent")
	err := ctx.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stored book")
}

func TestExportCommandWritesNotes(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)
	seedBook(t, "The Forever War", true)

	outDir := filepath.Join(t.TempDir(), "notes")

	cli, ctx := parseCLI(t, "export", "-o", outDir)
	assert.Equal(t, outDir, cli.Export.Output)
	require.NoError(t, ctx.Run())

	_, err := os.Stat(filepath.Join(outDir, "The Forever War.md"))
	require.NoError(t, err)
}

func TestShellCommandUsesSeam(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	called := false
	orig := runShell
	runShell = func(imp *importer.Importer, store *catalog.Store) error {
		called = true
		assert.NotNil(t, imp)
		assert.NotNil(t, store)
		return nil
	}
	t.Cleanup(func() { runShell = orig })

	_, ctx := parseCLI(t, "shell")
	require.NoError(t, ctx.Run())
	assert.True(t, called)
}

func TestNewImporterHonorsCoverConfig(t *testing.T) {
	resetCmdState(t)
	useTempDatabase(t)

	store, err := openStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	config.DownloadCovers = false
	imp := newImporter(store)
	assert.Empty(t, imp.CoversDir)

	config.DownloadCovers = true
	config.CoversDir = "./covers/"
	imp = newImporter(store)
	assert.Equal(t, "./covers/", imp.CoversDir)
}
