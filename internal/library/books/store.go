package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"library-api/internal/platform/db"
)

const table = "books"

var columns = []any{"id", "title", "author", "isbn"}

type Store struct {
	q       db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{q: d.DB, dialect: d.Dialect} }

// WithTx returns a store bound to tx.
func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{q: tx, dialect: s.dialect} }

func (s *Store) from() *goqu.SelectDataset {
	return s.dialect.Builder().From(table).Prepared(true)
}

func (s *Store) Insert(ctx context.Context, b Book) (int64, error) {
	ds := s.dialect.Builder().Insert(table).Rows(goqu.Record{
		"title":  b.Title,
		"author": b.Author,
		"isbn":   b.ISBN,
	})
	id, err := db.InsertID(ctx, s.q, s.dialect, ds)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return id, nil
}

func (s *Store) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var n int64
	ds := s.from().Select(goqu.COUNT("*")).Where(goqu.C("isbn").Eq(isbn))
	if err := db.Get(ctx, s.q, &n, ds); err != nil {
		return false, fmt.Errorf("exists book by isbn: %w", err)
	}
	return n > 0, nil
}

// GetByID returns sql.ErrNoRows when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.getOne(ctx, goqu.C("id").Eq(id))
}

func (s *Store) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.getOne(ctx, goqu.C("isbn").Eq(isbn))
}

func (s *Store) getOne(ctx context.Context, where exp.Expression) (Book, error) {
	var b Book
	ds := s.from().Select(columns...).Where(where).Limit(1)
	if err := db.Get(ctx, s.q, &b, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, sql.ErrNoRows
		}
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// Update は title/author のみ更新する。isbn は書き換えない
func (s *Store) Update(ctx context.Context, b Book) (int64, error) {
	ds := s.dialect.Builder().Update(table).Prepared(true).
		Set(goqu.Record{"title": b.Title, "author": b.Author}).
		Where(goqu.C("id").Eq(b.ID))
	n, err := db.Exec(ctx, s.q, ds)
	if err != nil {
		return 0, fmt.Errorf("update book: %w", err)
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	ds := s.dialect.Builder().Delete(table).Prepared(true).Where(goqu.C("id").Eq(id))
	n, err := db.Exec(ctx, s.q, ds)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, f Filter, p db.Page) ([]Book, int64, error) {
	var where []exp.Expression
	if f.Title != "" {
		where = append(where, db.Contains(s.dialect, "title", f.Title))
	}
	if f.Author != "" {
		where = append(where, db.Contains(s.dialect, "author", f.Author))
	}
	if f.ISBN != "" {
		where = append(where, goqu.C("isbn").Eq(f.ISBN))
	}
	base := s.from().Where(where...)

	var total int64
	if err := db.Get(ctx, s.q, &total, base.Select(goqu.COUNT("*"))); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	items := []Book{}
	ds := base.Select(columns...).Order(goqu.C("id").Asc()).Limit(p.Limit()).Offset(p.Offset())
	if err := db.Select(ctx, s.q, &items, ds); err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}
	return items, total, nil
}
