// Package book defines the canonical book record and the normalization step
// that turns raw Google Books metadata into it.
package book

// Book is the canonical, flat representation of one catalogued edition.
// Pointer fields distinguish "not set" from "empty string"; the Google Books
// API routinely omits fields and absent metadata is not an error.
type Book struct {
	ID            string
	Etag          *string
	SelfLink      *string
	Title         *string
	Authors       []string
	Publisher     *string
	PublishedDate *string
	Description   *string
	PageCount     *int
	Categories    []string
	Language      *string
	ISBN10        *string
	ISBN13        *string
	Thumbnail     *string

	// Read is the only field that mutates after insertion.
	Read bool

	// Added is the insertion date in YYYY-MM-DD form, set once by the
	// catalog store and never changed.
	Added string
}

// DisplayTitle returns the title, or the volume ID when the upstream record
// had no title at all.
func (b Book) DisplayTitle() string {
	if b.Title != nil && *b.Title != "" {
		return *b.Title
	}
	return b.ID
}
