package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"library-api/internal/platform/db"
)

const librariansTable = "librarians"

type Librarian struct {
	ID           string    `db:"id"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsDisabled   bool      `db:"is_disabled"`
	CreatedAt    time.Time `db:"created_at"`
}

type Store struct{ db *db.DB }

func NewStore(d *db.DB) *Store { return &Store{db: d} }

// GetByID は該当なしの場合 (nil, nil) を返す
func (s *Store) GetByID(ctx context.Context, id string) (*Librarian, error) {
	var l Librarian
	ds := s.db.Builder().From(librariansTable).Prepared(true).
		Select("id", "password_hash", "role", "is_disabled", "created_at").
		Where(goqu.C("id").Eq(id)).
		Limit(1)
	err := db.Get(ctx, s.db, &l, ds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get librarian: %w", err)
	}
	return &l, nil
}

func (s *Store) Create(ctx context.Context, l Librarian) error {
	ds := s.db.Builder().Insert(librariansTable).Prepared(true).Rows(goqu.Record{
		"id":            l.ID,
		"password_hash": l.PasswordHash,
		"role":          l.Role,
		"is_disabled":   l.IsDisabled,
		"created_at":    l.CreatedAt,
	})
	if _, err := db.Exec(ctx, s.db, ds); err != nil {
		return fmt.Errorf("insert librarian: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	ds := s.db.Builder().Delete(librariansTable).Prepared(true).Where(goqu.C("id").Eq(id))
	n, err := db.Exec(ctx, s.db, ds)
	if err != nil {
		return 0, fmt.Errorf("delete librarian: %w", err)
	}
	return n, nil
}
