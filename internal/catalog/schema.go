package catalog

// BooksSchema defines the single table of canonical book records.
//
// SQLite has no native array or date types: authors and categories are
// JSON-encoded TEXT, the two date columns hold YYYY-MM-DD strings and read
// is an integer boolean.
const BooksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY NOT NULL,
	etag TEXT,
	self_link TEXT,
	title TEXT,
	authors TEXT NOT NULL DEFAULT '[]',
	publisher TEXT,
	published_date TEXT,
	description TEXT,
	page_count INTEGER,
	categories TEXT NOT NULL DEFAULT '[]',
	language TEXT,
	isbn_10 TEXT,
	isbn_13 TEXT,
	thumbnail TEXT,
	read INTEGER NOT NULL DEFAULT 0,
	added TEXT NOT NULL
);
`
