package books

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"library-api/internal/platform/apperr"
	"library-api/internal/platform/db"
	"library-api/internal/platform/metrics"
)

const (
	MsgDuplicateISBN = "Isbn already registered"
	MsgBookHasLoans  = "Book has loans and cannot be deleted"
	msgBookNotFound  = "book not found"
)

type Service struct {
	db    *db.DB
	store *Store
}

func NewService(d *db.DB) *Service { return &Service{db: d, store: NewStore(d)} }

// Create は ISBN 重複を検査してから登録する。検査と INSERT は同一トランザクション
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	b.ISBN = NormalizeISBN(b.ISBN)
	if b.ISBN == "" {
		return Book{}, apperr.Invalid("isbn is required")
	}

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		exists, err := st.ExistsByISBN(ctx, b.ISBN)
		if err != nil {
			return err
		}
		if exists {
			return duplicateISBN(b.ISBN)
		}
		id, err := st.Insert(ctx, b)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return duplicateISBN(b.ISBN)
			}
			return err
		}
		b.ID = id
		return nil
	})
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func duplicateISBN(isbn string) error {
	logrus.WithField("isbn", isbn).Info("book rejected: isbn already registered")
	metrics.RuleViolation(metrics.RuleDuplicateISBN)
	return apperr.Business(MsgDuplicateISBN)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	b, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, apperr.NotFound(msgBookNotFound)
	}
	return b, err
}

func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	b, err := s.store.GetByISBN(ctx, NormalizeISBN(isbn))
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, apperr.NotFound(msgBookNotFound)
	}
	return b, err
}

func (s *Service) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return s.store.ExistsByISBN(ctx, NormalizeISBN(isbn))
}

// Update persists title and author of an existing book; last write wins.
func (s *Service) Update(ctx context.Context, b Book) (Book, error) {
	var out Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		cur, err := st.GetByID(ctx, b.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(msgBookNotFound)
		}
		if err != nil {
			return err
		}
		// 同値更新で RowsAffected が 0 になる MySQL があるので件数は見ない
		if _, err := st.Update(ctx, b); err != nil {
			return err
		}
		cur.Title, cur.Author = b.Title, b.Author
		out = cur
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			logrus.WithField("book_id", id).Info("book delete rejected: loans exist")
			metrics.RuleViolation(metrics.RuleBookHasLoans)
			return apperr.Business(MsgBookHasLoans)
		}
		return err
	}
	if n == 0 {
		return apperr.NotFound(msgBookNotFound)
	}
	return nil
}

func (s *Service) Find(ctx context.Context, f Filter, p db.Page) ([]Book, int64, error) {
	f.ISBN = NormalizeISBN(f.ISBN)
	return s.store.Find(ctx, f, p)
}
