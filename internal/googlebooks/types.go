package googlebooks

import "github.com/lepinkainen/tome/internal/book"

// volumesResponse matches the /volumes?q=isbn: search response.
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		ID string `json:"id"`
	} `json:"items"`
}

// volumeResponse matches the /volumes/{id} fetch response. Pointer fields
// stay nil when the API omits a key, which it does often enough that the
// mapping treats every field as optional.
type volumeResponse struct {
	ID         string  `json:"id"`
	Etag       *string `json:"etag"`
	SelfLink   *string `json:"selfLink"`
	VolumeInfo struct {
		Title               *string  `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           *string  `json:"publisher"`
		PublishedDate       *string  `json:"publishedDate"`
		Description         *string  `json:"description"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		PageCount  *int     `json:"pageCount"`
		Categories []string `json:"categories"`
		ImageLinks struct {
			Thumbnail *string `json:"thumbnail"`
		} `json:"imageLinks"`
		Language *string `json:"language"`
	} `json:"volumeInfo"`
}

// toBook flattens the nested response into a raw book record, defaulting in
// one pass: nil for absent scalars, empty slices for absent lists.
func (r volumeResponse) toBook() book.Book {
	vol := r.VolumeInfo

	b := book.Book{
		ID:            r.ID,
		Etag:          r.Etag,
		SelfLink:      r.SelfLink,
		Title:         vol.Title,
		Authors:       vol.Authors,
		Publisher:     vol.Publisher,
		PublishedDate: vol.PublishedDate,
		Description:   vol.Description,
		PageCount:     vol.PageCount,
		Categories:    vol.Categories,
		Language:      vol.Language,
		Thumbnail:     vol.ImageLinks.Thumbnail,
	}

	if b.Authors == nil {
		b.Authors = []string{}
	}
	if b.Categories == nil {
		b.Categories = []string{}
	}

	// ISBN-10 and ISBN-13 are picked out of the identifier list by type
	// tag. Other identifier types (ISSN, OTHER) are ignored, and a missing
	// list just leaves both nil.
	for _, ident := range vol.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			v := ident.Identifier
			b.ISBN10 = &v
		case "ISBN_13":
			v := ident.Identifier
			b.ISBN13 = &v
		}
	}

	return b
}
