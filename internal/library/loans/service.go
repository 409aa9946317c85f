package loans

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"library-api/internal/library/books"
	"library-api/internal/platform/apperr"
	"library-api/internal/platform/db"
	"library-api/internal/platform/metrics"
)

const (
	MsgBookAlreadyLoaned = "Book already loaned"
	MsgBookNotFound      = "Book not found for passed isbn"
	MsgReturnedLoan      = "Returned loan cannot be reopened"
	msgLoanNotFound      = "loan not found"
)

// -------------- Clock --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// -------------- Service --------------

type Service struct {
	db        *db.DB
	store     *Store
	clock     Clock
	lateAfter int
}

// NewService: lateAfterDays は延滞とみなすまでの日数
func NewService(d *db.DB, lateAfterDays int) *Service {
	return &Service{
		db:        d,
		store:     NewStore(d),
		clock:     realClock{},
		lateAfter: lateAfterDays,
	}
}

func (s *Service) today() time.Time { return dateOf(s.clock.Now()) }

// Save は貸出中の同一書籍が無いことを確認してから登録する。
// loan date が未指定なら今日 (UTC)
func (s *Service) Save(ctx context.Context, l Loan) (Loan, error) {
	if l.LoanDate.IsZero() {
		l.LoanDate = s.today()
	} else {
		l.LoanDate = dateOf(l.LoanDate)
	}
	if l.Book.ID != 0 && l.BookID == 0 {
		l.BookID = l.Book.ID
	}

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		// 返却済みの貸出を登録する場合は貸出中チェックの対象外
		if l.Outstanding() {
			busy, err := st.ExistsOutstandingByBook(ctx, l.BookID)
			if err != nil {
				return err
			}
			if busy {
				return alreadyLoaned(l.BookID)
			}
		}
		id, err := st.Insert(ctx, l)
		if err != nil {
			switch {
			case db.IsUniqueViolation(err):
				return alreadyLoaned(l.BookID)
			case db.IsForeignKeyViolation(err):
				metrics.RuleViolation(metrics.RuleUnknownLoanBook)
				return apperr.Business(MsgBookNotFound)
			}
			return err
		}
		l.ID = id
		return nil
	})
	if err != nil {
		return Loan{}, err
	}

	metrics.LoanCreated()
	logrus.WithFields(logrus.Fields{
		"loan_id":  l.ID,
		"book_id":  l.BookID,
		"customer": l.Customer,
	}).Info("loan created")
	return l, nil
}

func alreadyLoaned(bookID int64) error {
	logrus.WithField("book_id", bookID).Info("loan rejected: book already loaned")
	metrics.RuleViolation(metrics.RuleBookOnLoan)
	return apperr.Business(MsgBookAlreadyLoaned)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Loan, error) {
	l, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Loan{}, apperr.NotFound(msgLoanNotFound)
	}
	return l, err
}

// Update persists the returned flag. true は終端状態
func (s *Service) Update(ctx context.Context, l Loan) (Loan, error) {
	if l.Returned == nil {
		return Loan{}, apperr.Invalid("returned is required")
	}
	returned := *l.Returned

	var out Loan
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		n, err := st.UpdateReturned(ctx, l.ID, returned)
		if err != nil {
			return err
		}
		cur, err := st.GetByID(ctx, l.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(msgLoanNotFound)
		}
		if err != nil {
			return err
		}
		// 0件: 返却済みを false に戻そうとした (MySQL は同値更新も 0件)
		if n == 0 && !returned && !cur.Outstanding() {
			logrus.WithField("loan_id", l.ID).Info("loan update rejected: already returned")
			metrics.RuleViolation(metrics.RuleReturnedLoan)
			return apperr.Business(MsgReturnedLoan)
		}
		out = cur
		return nil
	})
	return out, err
}

// Find: isbn OR customer
func (s *Service) Find(ctx context.Context, f Filter, p db.Page) ([]Loan, int64, error) {
	f.ISBN = books.NormalizeISBN(f.ISBN)
	return s.store.Find(ctx, f, p)
}

func (s *Service) GetLoansByBook(ctx context.Context, b books.Book, p db.Page) ([]Loan, int64, error) {
	return s.store.FindByBook(ctx, b.ID, p)
}

// LateCutoff は延滞判定の基準日 (today - lateAfter)。これより前の貸出が延滞
func (s *Service) LateCutoff() time.Time {
	return s.today().AddDate(0, 0, -s.lateAfter)
}

// GetAllLateLoans lists every unreturned loan dated strictly before LateCutoff.
func (s *Service) GetAllLateLoans(ctx context.Context) ([]Loan, error) {
	return s.store.FindLate(ctx, s.LateCutoff())
}
