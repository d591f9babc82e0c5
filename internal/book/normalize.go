package book

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	yearOnly   = regexp.MustCompile(`^\d{4}$`)
	yearMonth  = regexp.MustCompile(`^\d{4}-\d{2}$`)
	shortMonth = regexp.MustCompile(`^(\d{4})-(\d)(-\d{1,2})?$`)
	shortDay   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d)$`)
	fullDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Normalize returns a copy of b with the published date padded to full
// YYYY-MM-DD form and every author name title-cased. All other fields pass
// through untouched; the input value is never mutated.
func Normalize(b Book) Book {
	b.PublishedDate = normalizeDate(b.PublishedDate)

	// A cases.Caser is stateful, so build a fresh one per call.
	titler := cases.Title(language.English)
	authors := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = titler.String(strings.ToLower(a))
	}
	b.Authors = authors

	return b
}

// normalizeDate pads a partial Google Books date until it is a full
// YYYY-MM-DD string. The API returns anything from a bare year to a full
// date, occasionally with single-digit month or day. Shapes outside the
// known set are returned unchanged so the loop always terminates.
func normalizeDate(date *string) *string {
	if date == nil {
		return nil
	}

	d := *date
	for !fullDate.MatchString(d) {
		switch {
		case yearOnly.MatchString(d):
			d += "-01-01"
		case yearMonth.MatchString(d):
			d += "-01"
		case shortMonth.MatchString(d):
			m := shortMonth.FindStringSubmatch(d)
			// The day may still be single-digit; the next pass catches it.
			d = fmt.Sprintf("%s-0%s%s", m[1], m[2], m[3])
		case shortDay.MatchString(d):
			m := shortDay.FindStringSubmatch(d)
			d = fmt.Sprintf("%s-%s-0%s", m[1], m[2], m[3])
		default:
			return &d
		}
	}
	return &d
}
