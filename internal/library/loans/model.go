package loans

import (
	"database/sql"
	"time"

	"library-api/internal/library/books"
)

// DateLayout は loan_date の保存・比較形式
const DateLayout = "2006-01-02"

// Loan.Returned: nil = 未設定, false = 貸出中, true = 返却済み
type Loan struct {
	ID       int64
	BookID   int64
	Book     books.Book
	Customer string
	LoanDate time.Time
	Returned *bool
}

// Outstanding reports whether the loan still holds its book.
func (l Loan) Outstanding() bool { return l.Returned == nil || !*l.Returned }

type Filter struct {
	ISBN     string
	Customer string
}

type loanRow struct {
	ID         int64        `db:"id"`
	BookID     int64        `db:"book_id"`
	Customer   string       `db:"customer"`
	LoanDate   time.Time    `db:"loan_date"`
	Returned   sql.NullBool `db:"returned"`
	BookTitle  string       `db:"book_title"`
	BookAuthor string       `db:"book_author"`
	BookISBN   string       `db:"book_isbn"`
}

func (r loanRow) toLoan() Loan {
	l := Loan{
		ID:       r.ID,
		BookID:   r.BookID,
		Customer: r.Customer,
		LoanDate: dateOf(r.LoanDate),
		Book: books.Book{
			ID:     r.BookID,
			Title:  r.BookTitle,
			Author: r.BookAuthor,
			ISBN:   r.BookISBN,
		},
	}
	if r.Returned.Valid {
		v := r.Returned.Bool
		l.Returned = &v
	}
	return l
}

// dateOf truncates t to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
