package loans

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-api/internal/library/books"
	"library-api/internal/platform/apperr"
	"library-api/internal/platform/httpx"
)

// BookFinder resolves the book referenced by a loan request.
type BookFinder interface {
	GetByID(ctx context.Context, id int64) (books.Book, error)
	GetByISBN(ctx context.Context, isbn string) (books.Book, error)
}

type Handler struct {
	svc   *Service
	books BookFinder
}

// RegisterRoutes mounts the loan routes. guards run before every write route.
func RegisterRoutes(r gin.IRoutes, svc *Service, bf BookFinder, guards ...gin.HandlerFunc) {
	h := &Handler{svc: svc, books: bf}
	w := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}

	r.POST("/loans", w(h.Create)...)
	r.GET("/loans", h.Find)
	r.GET("/loans/:id", h.Get)
	r.PATCH("/loans/:id", w(h.Update)...)
	r.GET("/books/:id/loans", h.ListByBook)

	// 延滞一覧（外部の通知バッチがポーリングする）
	r.GET("/late-loans", h.ListLate)
	r.GET("/late-loans/export", h.ExportLate)
}

// Create godoc
// @Summary  Loan a book to a customer
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    body body CreateLoanRequest true "loan"
// @Success  201 {object} CreateLoanResponse
// @Failure  400 {object} httpx.ErrorBody
// @Router   /loans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateLoanRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, err)
		return
	}
	ctx := c.Request.Context()

	b, err := h.books.GetByISBN(ctx, req.ISBN)
	if err != nil {
		if apperr.IsNotFound(err) {
			err = apperr.Business(MsgBookNotFound)
		}
		httpx.Fail(c, err)
		return
	}

	l, err := h.svc.Save(ctx, Loan{BookID: b.ID, Book: b, Customer: req.Customer})
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.Header("Location", "/api/loans/"+strconv.FormatInt(l.ID, 10))
	c.JSON(http.StatusCreated, CreateLoanResponse{ID: l.ID})
}

// Get godoc
// @Summary  Get a loan
// @Tags     loans
// @Produce  json
// @Param    id path int true "loan id"
// @Success  200 {object} LoanResponse
// @Failure  404
// @Router   /loans/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		httpx.Fail(c, apperr.Invalid("id must be a number"))
		return
	}
	l, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(l))
}

// Update godoc
// @Summary  Set the returned flag of a loan
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    id   path int               true "loan id"
// @Param    body body UpdateLoanRequest true "returned flag"
// @Success  200 {object} LoanResponse
// @Failure  400 {object} httpx.ErrorBody
// @Failure  404
// @Router   /loans/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		httpx.Fail(c, apperr.Invalid("id must be a number"))
		return
	}
	var req UpdateLoanRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, err)
		return
	}
	l, err := h.svc.Update(c.Request.Context(), Loan{ID: id, Returned: req.Returned})
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(l))
}

// Find godoc
// @Summary  Search loans by isbn or customer
// @Tags     loans
// @Produce  json
// @Param    isbn     query string false "book isbn"
// @Param    customer query string false "customer"
// @Param    page     query int    false "page (0-based)"
// @Param    size     query int    false "page size"
// @Success  200 {object} httpx.PageResult[LoanResponse]
// @Router   /loans [get]
func (h *Handler) Find(c *gin.Context) {
	f := Filter{ISBN: c.Query("isbn"), Customer: c.Query("customer")}
	p := httpx.ParsePage(c)
	items, total, err := h.svc.Find(c.Request.Context(), f, p)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpx.NewPageResult(toResponses(items), total, p))
}

// ListByBook godoc
// @Summary  Loans of a book
// @Tags     loans
// @Produce  json
// @Param    id   path  int true  "book id"
// @Param    page query int false "page (0-based)"
// @Param    size query int false "page size"
// @Success  200 {object} httpx.PageResult[LoanResponse]
// @Failure  404
// @Router   /books/{id}/loans [get]
func (h *Handler) ListByBook(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		httpx.Fail(c, apperr.Invalid("id must be a number"))
		return
	}
	ctx := c.Request.Context()
	b, err := h.books.GetByID(ctx, id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	p := httpx.ParsePage(c)
	items, total, err := h.svc.GetLoansByBook(ctx, b, p)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpx.NewPageResult(toResponses(items), total, p))
}

// ListLate godoc
// @Summary  Unreturned loans older than the late threshold
// @Tags     loans
// @Produce  json
// @Success  200 {object} LateLoansResponse
// @Router   /late-loans [get]
func (h *Handler) ListLate(c *gin.Context) {
	items, err := h.svc.GetAllLateLoans(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, LateLoansResponse{
		Cutoff: h.svc.LateCutoff().Format(DateLayout),
		Items:  toResponses(items),
	})
}

// ExportLate godoc
// @Summary  Late loans as CSV
// @Tags     loans
// @Produce  text/csv
// @Param    encoding query string false "utf-8 (default) or shift_jis"
// @Success  200 {file} file
// @Failure  400 {object} httpx.ErrorBody
// @Router   /late-loans/export [get]
func (h *Handler) ExportLate(c *gin.Context) {
	enc, err := ParseEncoding(c.Query("encoding"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	items, err := h.svc.GetAllLateLoans(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	filename := "late-loans-" + h.svc.LateCutoff().Format(DateLayout) + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", ContentType(enc))
	c.Status(http.StatusOK)
	if err := WriteCSV(c.Writer, items, enc); err != nil {
		_ = c.Error(err)
	}
}
