package loans

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"library-api/internal/library/books"
	"library-api/internal/platform/db"
	"library-api/internal/platform/db/dbtest"
	"library-api/internal/platform/httpx"
)

type env struct {
	r   *gin.Engine
	d   *db.DB
	svc *Service
}

func newEnv(t *testing.T) env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := dbtest.Open(t)
	bs := books.NewService(d)
	svc := newService(t, d)

	r := gin.New()
	api := r.Group("/api")
	books.RegisterRoutes(api, bs)
	RegisterRoutes(api, svc, bs)
	return env{r: r, d: d, svc: svc}
}

func (e env) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHandler_LoanLifecycle(t *testing.T) {
	e := newEnv(t)
	b := addBook(t, e.d, "123")

	w := e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "123", Customer: "Fulano"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[CreateLoanResponse](t, w)
	assert.Positive(t, created.ID)

	w = e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "123", Customer: "Beltrano"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgBookAlreadyLoaned}, decode[httpx.ErrorBody](t, w).Errors)

	w = e.do(http.MethodGet, "/api/loans/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[LoanResponse](t, w)
	assert.Equal(t, LoanResponse{
		ID:       created.ID,
		Book:     books.ToResponse(b),
		Customer: "Fulano",
		LoanDate: "2026-10-19",
	}, got)

	w = e.do(http.MethodPatch, "/api/loans/1", map[string]bool{"returned": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ptr(true), decode[LoanResponse](t, w).Returned)

	w = e.do(http.MethodPatch, "/api/loans/1", map[string]bool{"returned": false})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgReturnedLoan}, decode[httpx.ErrorBody](t, w).Errors)

	w = e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "123", Customer: "Beltrano"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_CreateErrors(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "404", Customer: "Fulano"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgBookNotFound}, decode[httpx.ErrorBody](t, w).Errors)

	w = e.do(http.MethodPost, "/api/loans", map[string]string{"isbn": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"customer is required"}, decode[httpx.ErrorBody](t, w).Errors)
}

func TestHandler_UpdateErrors(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPatch, "/api/loans/9", map[string]bool{"returned": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w = e.do(http.MethodPatch, "/api/loans/9", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"returned is required"}, decode[httpx.ErrorBody](t, w).Errors)
}

func TestHandler_Find(t *testing.T) {
	e := newEnv(t)
	addBook(t, e.d, "123")
	addBook(t, e.d, "456")
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "123", Customer: "Fulano"}).Code)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "456", Customer: "Beltrano"}).Code)

	w := e.do(http.MethodGet, "/api/loans?isbn=123&customer=Fulano&page=0&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[httpx.PageResult[LoanResponse]](t, w)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, 0, res.Page)
	assert.Equal(t, 10, res.Size)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "123", res.Items[0].Book.ISBN)

	w = e.do(http.MethodGet, "/api/loans?isbn=456&customer=Fulano", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decode[httpx.PageResult[LoanResponse]](t, w).Total)
}

func TestHandler_ListByBook(t *testing.T) {
	e := newEnv(t)
	b := addBook(t, e.d, "123")
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/loans", CreateLoanRequest{ISBN: "123", Customer: "Fulano"}).Code)

	w := e.do(http.MethodGet, "/api/books/1/loans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[httpx.PageResult[LoanResponse]](t, w)
	require.Len(t, res.Items, 1)
	assert.Equal(t, books.ToResponse(b), res.Items[0].Book)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/books/2/loans", nil).Code)
}

func seedLate(t *testing.T, e env) {
	t.Helper()
	st := NewStore(e.d)
	addLoan(t, st, Loan{BookID: addBook(t, e.d, "111").ID, Customer: "山田太郎", LoanDate: date(2026, 10, 10)})
	addLoan(t, st, Loan{BookID: addBook(t, e.d, "222").ID, Customer: "Fulano", LoanDate: date(2026, 10, 19)})
}

func TestHandler_ListLate(t *testing.T) {
	e := newEnv(t)
	seedLate(t, e)

	w := e.do(http.MethodGet, "/api/late-loans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[LateLoansResponse](t, w)
	assert.Equal(t, "2026-10-15", res.Cutoff)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "山田太郎", res.Items[0].Customer)
}

func TestHandler_ExportLate(t *testing.T) {
	e := newEnv(t)
	seedLate(t, e)

	w := e.do(http.MethodGet, "/api/late-loans/export?encoding=shift_jis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=Shift_JIS", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "late-loans-2026-10-15.csv")

	utf8, err := japanese.ShiftJIS.NewDecoder().Bytes(w.Body.Bytes())
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(utf8)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "山田太郎", records[1][4])

	w = e.do(http.MethodGet, "/api/late-loans/export?encoding=latin1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
