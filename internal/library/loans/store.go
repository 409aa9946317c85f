package loans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"library-api/internal/platform/db"
)

const table = "loans"

var loanColumns = []any{
	goqu.I("l.id").As("id"),
	goqu.I("l.book_id").As("book_id"),
	goqu.I("l.customer").As("customer"),
	goqu.I("l.loan_date").As("loan_date"),
	goqu.I("l.returned").As("returned"),
	goqu.I("b.title").As("book_title"),
	goqu.I("b.author").As("book_author"),
	goqu.I("b.isbn").As("book_isbn"),
}

type Store struct {
	q       db.DBTX
	dialect db.Dialect
}

func NewStore(d *db.DB) *Store { return &Store{q: d.DB, dialect: d.Dialect} }

func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{q: tx, dialect: s.dialect} }

// loans l JOIN books b
func (s *Store) joined() *goqu.SelectDataset {
	return s.dialect.Builder().
		From(goqu.T(table).As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Prepared(true)
}

// 貸出中: returned が NULL か false
func outstanding(col string) exp.Expression {
	return goqu.L("? IS NOT TRUE", goqu.I(col))
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func (s *Store) Insert(ctx context.Context, l Loan) (int64, error) {
	ds := s.dialect.Builder().Insert(table).Rows(goqu.Record{
		"book_id":   l.BookID,
		"customer":  l.Customer,
		"loan_date": l.LoanDate.Format(DateLayout),
		"returned":  nullableBool(l.Returned),
	})
	id, err := db.InsertID(ctx, s.q, s.dialect, ds)
	if err != nil {
		return 0, fmt.Errorf("insert loan: %w", err)
	}
	return id, nil
}

func (s *Store) ExistsOutstandingByBook(ctx context.Context, bookID int64) (bool, error) {
	var n int64
	ds := s.dialect.Builder().From(table).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(goqu.C("book_id").Eq(bookID), outstanding("returned"))
	if err := db.Get(ctx, s.q, &n, ds); err != nil {
		return false, fmt.Errorf("exists outstanding loan: %w", err)
	}
	return n > 0, nil
}

// GetByID returns sql.ErrNoRows when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (Loan, error) {
	var r loanRow
	ds := s.joined().Select(loanColumns...).Where(goqu.I("l.id").Eq(id)).Limit(1)
	if err := db.Get(ctx, s.q, &r, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Loan{}, sql.ErrNoRows
		}
		return Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return r.toLoan(), nil
}

// UpdateReturned sets the returned flag. 返却済みを false に戻す更新は WHERE で弾く
func (s *Store) UpdateReturned(ctx context.Context, id int64, returned bool) (int64, error) {
	where := []exp.Expression{goqu.C("id").Eq(id)}
	if !returned {
		where = append(where, outstanding("returned"))
	}
	ds := s.dialect.Builder().Update(table).Prepared(true).
		Set(goqu.Record{"returned": returned}).
		Where(where...)
	n, err := db.Exec(ctx, s.q, ds)
	if err != nil {
		return 0, fmt.Errorf("update loan: %w", err)
	}
	return n, nil
}

// Find は isbn OR customer で検索する。両方空なら全件
func (s *Store) Find(ctx context.Context, f Filter, p db.Page) ([]Loan, int64, error) {
	var or []exp.Expression
	if f.ISBN != "" {
		or = append(or, goqu.I("b.isbn").Eq(f.ISBN))
	}
	if f.Customer != "" {
		or = append(or, goqu.I("l.customer").Eq(f.Customer))
	}
	ds := s.joined()
	if len(or) > 0 {
		ds = ds.Where(goqu.Or(or...))
	}
	return s.page(ctx, ds, p)
}

func (s *Store) FindByBook(ctx context.Context, bookID int64, p db.Page) ([]Loan, int64, error) {
	return s.page(ctx, s.joined().Where(goqu.I("l.book_id").Eq(bookID)), p)
}

func (s *Store) page(ctx context.Context, ds *goqu.SelectDataset, p db.Page) ([]Loan, int64, error) {
	var total int64
	if err := db.Get(ctx, s.q, &total, ds.Select(goqu.COUNT("*"))); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	var rows []loanRow
	q := ds.Select(loanColumns...).Order(goqu.I("l.id").Asc()).Limit(p.Limit()).Offset(p.Offset())
	if err := db.Select(ctx, s.q, &rows, q); err != nil {
		return nil, 0, fmt.Errorf("find loans: %w", err)
	}
	return toLoans(rows), total, nil
}

// FindLate lists loans dated strictly before cutoff that are not returned.
func (s *Store) FindLate(ctx context.Context, cutoff time.Time) ([]Loan, error) {
	var rows []loanRow
	ds := s.joined().Select(loanColumns...).
		Where(
			goqu.I("l.loan_date").Lt(cutoff.Format(DateLayout)),
			outstanding("l.returned"),
		).
		Order(goqu.I("l.loan_date").Asc(), goqu.I("l.id").Asc())
	if err := db.Select(ctx, s.q, &rows, ds); err != nil {
		return nil, fmt.Errorf("find late loans: %w", err)
	}
	return toLoans(rows), nil
}

func toLoans(rows []loanRow) []Loan {
	out := make([]Loan, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toLoan())
	}
	return out
}
