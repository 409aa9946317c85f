package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/platform/db"
)

func TestContains(t *testing.T) {
	tests := []struct {
		dialect db.Dialect
		sql     string
	}{
		{db.MySQL, "SELECT * FROM `books` WHERE `title` LIKE ? ESCAPE '!'"},
		{db.SQLite, "SELECT * FROM `books` WHERE `title` LIKE ? ESCAPE '!'"},
		{db.Postgres, `SELECT * FROM "books" WHERE "title" ILIKE $1 ESCAPE '!'`},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			sql, args, err := tt.dialect.Builder().From("books").Prepared(true).
				Where(db.Contains(tt.dialect, "title", "50%_!")).ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, []interface{}{"%50!%!_!!%"}, args)
		})
	}
}
