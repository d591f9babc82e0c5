// Package importer wires the lookup client, normalizer and catalog store
// into the one flow the CLI and the interactive shell share: ISBN in,
// persisted canonical record out.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/tome/internal/book"
	"github.com/lepinkainen/tome/internal/catalog"
	"github.com/lepinkainen/tome/internal/covers"
	"github.com/lepinkainen/tome/internal/googlebooks"
)

// Importer adds books to the catalog by ISBN.
type Importer struct {
	client *googlebooks.Client
	store  *catalog.Store

	// CoversDir enables cover thumbnail downloads when non-empty.
	CoversDir string
}

// New creates an Importer over the given client and store.
func New(client *googlebooks.Client, store *catalog.Store) *Importer {
	return &Importer{client: client, store: store}
}

// AddByISBN resolves an ISBN to a volume, fetches and normalizes its
// metadata and inserts it with the given read flag. Returns the canonical
// record and whether an insertion occurred; false with a nil error means the
// book was already catalogued.
func (i *Importer) AddByISBN(ctx context.Context, isbn string, read bool) (*book.Book, bool, error) {
	volumeID, err := i.client.VolumeIDByISBN(ctx, isbn)
	if err != nil {
		return nil, false, fmt.Errorf("resolving ISBN %s: %w", isbn, err)
	}

	raw, err := i.client.VolumeByID(ctx, volumeID)
	if err != nil {
		return nil, false, fmt.Errorf("fetching volume %s: %w", volumeID, err)
	}

	b := book.Normalize(*raw)

	inserted, err := i.store.Insert(b, read)
	if err != nil {
		return nil, false, fmt.Errorf("storing %q: %w", b.DisplayTitle(), err)
	}
	if !inserted {
		slog.Info("Book already catalogued", "title", b.DisplayTitle(), "volume_id", b.ID)
		return &b, false, nil
	}

	slog.Info("Added book", "title", b.DisplayTitle(), "volume_id", b.ID, "read", read)

	i.downloadCover(ctx, b)

	return &b, true, nil
}

// downloadCover fetches the thumbnail after a successful insert. Covers are
// best effort: a failed download never fails the add.
func (i *Importer) downloadCover(ctx context.Context, b book.Book) {
	if i.CoversDir == "" || b.Thumbnail == nil {
		return
	}

	_, err := covers.Download(ctx, covers.DownloadOptions{
		URL:       *b.Thumbnail,
		OutputDir: i.CoversDir,
		Filename:  covers.Filename(b.DisplayTitle()),
	})
	if err != nil {
		slog.Warn("Cover download failed", "title", b.DisplayTitle(), "error", err)
	}
}
