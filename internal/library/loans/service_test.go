package loans

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/platform/apperr"
	"library-api/internal/platform/db"
	"library-api/internal/platform/db/dbtest"
	"library-api/internal/platform/httpx"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var now = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newService(t *testing.T, d *db.DB) *Service {
	t.Helper()
	svc := NewService(d, 4)
	svc.clock = fixedClock{t: now}
	return svc
}

func TestService_SaveDefaultsLoanDate(t *testing.T) {
	ctx := context.Background()
	d := dbtest.Open(t)
	svc := newService(t, d)
	b := addBook(t, d, "123")

	l, err := svc.Save(ctx, Loan{Book: b, Customer: "Fulano"})
	require.NoError(t, err)
	assert.Positive(t, l.ID)
	assert.Equal(t, b.ID, l.BookID)
	assert.Equal(t, date(2026, 10, 19), l.LoanDate)

	stored, err := svc.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 10, 19), stored.LoanDate)
	assert.Nil(t, stored.Returned)
}

func TestService_SaveOneOutstandingLoanPerBook(t *testing.T) {
	ctx := context.Background()
	d := dbtest.Open(t)
	svc := newService(t, d)
	b := addBook(t, d, "123")

	first, err := svc.Save(ctx, Loan{BookID: b.ID, Customer: "Fulano"})
	require.NoError(t, err)

	_, err = svc.Save(ctx, Loan{BookID: b.ID, Customer: "Beltrano"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeBusinessRule))
	assert.ErrorContains(t, err, MsgBookAlreadyLoaned)

	// false のままでも貸出中
	_, err = svc.Update(ctx, Loan{ID: first.ID, Returned: ptr(false)})
	require.NoError(t, err)
	_, err = svc.Save(ctx, Loan{BookID: b.ID, Customer: "Beltrano"})
	assert.ErrorContains(t, err, MsgBookAlreadyLoaned)

	_, err = svc.Update(ctx, Loan{ID: first.ID, Returned: ptr(true)})
	require.NoError(t, err)
	_, err = svc.Save(ctx, Loan{BookID: b.ID, Customer: "Beltrano"})
	assert.NoError(t, err)
}

func TestService_SaveUnknownBook(t *testing.T) {
	svc := newService(t, dbtest.Open(t))
	_, err := svc.Save(context.Background(), Loan{BookID: 999, Customer: "Fulano"})
	assert.True(t, apperr.Is(err, apperr.CodeBusinessRule))
	assert.ErrorContains(t, err, MsgBookNotFound)
}

func TestService_SaveUniqueViolationRace(t *testing.T) {
	d, mock := dbtest.Mock(t)
	svc := newService(t, d)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `loans`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7' for key 'uq_loans_outstanding_book'"})
	mock.ExpectRollback()

	_, err := svc.Save(context.Background(), Loan{BookID: 7, Customer: "Fulano"})
	assert.True(t, apperr.Is(err, apperr.CodeBusinessRule))
	assert.ErrorContains(t, err, MsgBookAlreadyLoaned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    *bool
		to      bool
		wantErr bool
	}{
		{"unset to false", nil, false, false},
		{"unset to true", nil, true, false},
		{"false to true", ptr(false), true, false},
		{"false to false", ptr(false), false, false},
		{"true to true", ptr(true), true, false},
		{"true to false is rejected", ptr(true), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			d := dbtest.Open(t)
			svc := newService(t, d)
			b := addBook(t, d, "123")
			l := addLoan(t, NewStore(d), Loan{BookID: b.ID, Customer: "c", LoanDate: date(2026, 10, 1), Returned: tt.from})

			out, err := svc.Update(ctx, Loan{ID: l.ID, Returned: ptr(tt.to)})
			if tt.wantErr {
				assert.True(t, apperr.Is(err, apperr.CodeBusinessRule))
				assert.ErrorContains(t, err, MsgReturnedLoan)
				stored, err := svc.GetByID(ctx, l.ID)
				require.NoError(t, err)
				assert.Equal(t, ptr(true), stored.Returned)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ptr(tt.to), out.Returned)
			assert.Equal(t, b, out.Book)
		})
	}
}

func TestService_UpdateMissing(t *testing.T) {
	svc := newService(t, dbtest.Open(t))
	_, err := svc.Update(context.Background(), Loan{ID: 1, Returned: ptr(true)})
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Update(context.Background(), Loan{ID: 1})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestService_FindByIsbnOrCustomer(t *testing.T) {
	ctx := context.Background()
	d := dbtest.Open(t)
	svc := newService(t, d)
	b := addBook(t, d, "123")
	_, err := svc.Save(ctx, Loan{BookID: b.ID, Customer: "Fulano"})
	require.NoError(t, err)

	items, total, err := svc.Find(ctx, Filter{ISBN: "123", Customer: "Fulano"}, httpx.Page{Number: 0, Size: 10})
	require.NoError(t, err)
	res := httpx.NewPageResult(items, total, httpx.Page{Number: 0, Size: 10})
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 10, res.Size)
	assert.Equal(t, 0, res.Page)
	assert.Equal(t, int64(1), res.Total)
}

func TestService_GetLoansByBook(t *testing.T) {
	ctx := context.Background()
	d := dbtest.Open(t)
	svc := newService(t, d)
	b := addBook(t, d, "123")
	other := addBook(t, d, "456")
	_, err := svc.Save(ctx, Loan{BookID: b.ID, Customer: "Fulano"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, Loan{BookID: other.ID, Customer: "Fulano"})
	require.NoError(t, err)

	items, total, err := svc.GetLoansByBook(ctx, b, httpx.Page{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].BookID)
}

func TestService_GetAllLateLoans(t *testing.T) {
	ctx := context.Background()
	d := dbtest.Open(t)
	svc := newService(t, d)
	st := NewStore(d)
	today := date(2026, 10, 19)

	late := addLoan(t, st, Loan{BookID: addBook(t, d, "1").ID, Customer: "late", LoanDate: today.AddDate(0, 0, -5)})
	addLoan(t, st, Loan{BookID: addBook(t, d, "2").ID, Customer: "today", LoanDate: today})
	addLoan(t, st, Loan{BookID: addBook(t, d, "3").ID, Customer: "threshold", LoanDate: today.AddDate(0, 0, -4)})
	addLoan(t, st, Loan{BookID: addBook(t, d, "4").ID, Customer: "returned", LoanDate: today.AddDate(0, 0, -30), Returned: ptr(true)})
	notReturned := addLoan(t, st, Loan{BookID: addBook(t, d, "5").ID, Customer: "not returned", LoanDate: today.AddDate(0, 0, -10), Returned: ptr(false)})

	assert.Equal(t, today.AddDate(0, 0, -4), svc.LateCutoff())

	items, err := svc.GetAllLateLoans(ctx)
	require.NoError(t, err)
	ids := []int64{}
	for _, l := range items {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []int64{notReturned.ID, late.ID}, ids)
}
