package db

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// '!' is escaped the same way on every dialect. Backslash is not: MySQL
// treats it as a string-literal escape and SQLite has no default.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Contains matches col case-insensitively against v as a literal substring.
func Contains(d Dialect, col, v string) exp.Expression {
	op := "LIKE"
	if d == Postgres {
		op = "ILIKE"
	}
	return goqu.L("? "+op+" ? ESCAPE '!'", goqu.C(col), "%"+likeEscaper.Replace(v)+"%")
}
