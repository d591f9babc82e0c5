package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/tome/internal/catalog"
	"github.com/lepinkainen/tome/internal/config"
	"github.com/lepinkainen/tome/internal/googlebooks"
	"github.com/lepinkainen/tome/internal/importer"
	"github.com/lepinkainen/tome/internal/notes"
	"github.com/lepinkainen/tome/internal/tui"
)

// runShell is a seam for tests; the real shell takes over the terminal.
var runShell = func(imp *importer.Importer, store *catalog.Store) error {
	return tui.NewShell(imp, store).Run()
}

// CLI represents the complete command structure for the tome application
type CLI struct {
	// Global flags
	DB       string `help:"Path to the catalog SQLite database file" default:"./tome.db"`
	NoCovers bool   `help:"Skip downloading cover thumbnails when adding books"`

	Add    AddCmd    `cmd:"" help:"Look up an ISBN and add the book to the catalog"`
	List   ListCmd   `cmd:"" help:"List catalogued books"`
	Delete DeleteCmd `cmd:"" help:"Delete a book by title or ISBN"`
	Toggle ToggleCmd `cmd:"" help:"Flip a book between read and unread"`
	Export ExportCmd `cmd:"" help:"Export catalogued books as markdown notes"`
	Shell  ShellCmd  `cmd:"" help:"Run the interactive catalogue shell"`
}

// AddCmd represents the add command
type AddCmd struct {
	ISBN string `arg:"" help:"ISBN-10 or ISBN-13 of the book, hyphens and spaces allowed"`
	Read bool   `help:"Mark the book as already read"`
}

// ListCmd represents the list command
type ListCmd struct {
	Read   bool `help:"Show only books marked read"`
	Unread bool `help:"Show only books not yet read"`
	Titles bool `help:"Print bare titles without read markers"`
}

// DeleteCmd represents the delete command
type DeleteCmd struct {
	Title string `help:"Exact title of the book to delete"`
	ISBN  string `help:"ISBN-10 or ISBN-13 of the book to delete"`
}

// ToggleCmd represents the toggle command
type ToggleCmd struct {
	Title string `arg:"" help:"Exact title of the book to toggle"`
}

// ExportCmd represents the export command
type ExportCmd struct {
	Output    string `short:"o" help:"Directory to write markdown notes into (defaults to export.output from config)"`
	Overwrite bool   `help:"Overwrite existing markdown files"`
}

// ShellCmd represents the interactive shell command
type ShellCmd struct{}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("tome"),
		kong.Description("A personal book catalogue fed by Google Books lookups."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("database.file", "./tome.db")
	viper.SetDefault("covers.download", true)
	viper.SetDefault("covers.output", "./covers/")
	viper.SetDefault("export.output", "./markdown/")

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("GoogleBooksAPIKey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetDatabaseFile(cli.DB)
	if cli.NoCovers {
		config.SetDownloadCovers(false)
	}
}

// openStore opens the catalog database and ensures the books table exists.
func openStore() (*catalog.Store, error) {
	store, err := catalog.Open(catalog.Config{DatabaseFile: config.DatabaseFile})
	if err != nil {
		return nil, err
	}
	if err := store.CreateTable(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newImporter(store *catalog.Store) *importer.Importer {
	var opts []googlebooks.Option
	if config.GoogleBooksAPIKey != "" {
		opts = append(opts, googlebooks.WithAPIKey(config.GoogleBooksAPIKey))
	}

	imp := importer.New(googlebooks.NewClient(opts...), store)
	if config.DownloadCovers {
		imp.CoversDir = config.CoversDir
	}
	return imp
}

// Run methods for each command

func (a *AddCmd) Run() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	b, inserted, err := newImporter(store).AddByISBN(context.Background(), a.ISBN, a.Read)
	if err != nil {
		return err
	}

	if inserted {
		fmt.Printf("Added %q to the catalogue.\n", b.DisplayTitle())
	} else {
		fmt.Printf("%q is already in the catalogue.\n", b.DisplayTitle())
	}
	return nil
}

func (l *ListCmd) Run() error {
	if l.Read && l.Unread {
		return fmt.Errorf("--read and --unread are mutually exclusive")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var filter *bool
	if l.Read || l.Unread {
		filter = &l.Read
	}

	if l.Titles {
		titles, err := store.ListTitles(filter)
		if err != nil {
			return err
		}
		for _, title := range titles {
			fmt.Println(title)
		}
		return nil
	}

	books, err := store.List(filter)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Println("The catalogue is empty.")
		return nil
	}

	for _, b := range books {
		marker := "[ ]"
		if b.Read {
			marker = "[x]"
		}
		fmt.Printf("%s %s\n", marker, b.DisplayTitle())
	}
	return nil
}

func (d *DeleteCmd) Run() error {
	if d.Title == "" && d.ISBN == "" {
		return fmt.Errorf("either --title or --isbn is required")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sel := catalog.Selector{Title: d.Title}
	if d.Title == "" {
		sel = catalog.Selector{ISBN: googlebooks.NormalizeISBN(d.ISBN)}
	}

	deleted, err := store.Delete(sel)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("no stored book matches the given selector")
	}

	fmt.Println("Deleted.")
	return nil
}

func (c *ToggleCmd) Run() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	found, err := store.ToggleRead(c.Title)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no stored book titled %q", c.Title)
	}

	fmt.Printf("Toggled read status of %q.\n", c.Title)
	return nil
}

func (e *ExportCmd) Run() error {
	output := e.Output
	if output == "" {
		output = config.ExportDir
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.List(nil)
	if err != nil {
		return err
	}

	written, err := notes.Export(books, output, e.Overwrite)
	if err != nil {
		return err
	}

	slog.Info("Exported notes", "written", written, "total", len(books), "dir", output)
	return nil
}

func (s *ShellCmd) Run() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return runShell(newImporter(store), store)
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
