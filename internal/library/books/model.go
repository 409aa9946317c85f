package books

import (
	"strings"

	"golang.org/x/text/width"
)

type Book struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
	ISBN   string `db:"isbn"`
}

// Filter は検索条件。空フィールドは条件に含めない (AND)
type Filter struct {
	Title  string
	Author string
	ISBN   string
}

// NormalizeISBN trims surrounding spaces and folds full-width characters to ASCII.
func NormalizeISBN(isbn string) string {
	return strings.TrimSpace(width.Narrow.String(isbn))
}
