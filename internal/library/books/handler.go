package books

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/apperr"
	"library-api/internal/platform/httpx"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the book routes. guards run before every write route.
func RegisterRoutes(r gin.IRoutes, svc *Service, guards ...gin.HandlerFunc) {
	h := &Handler{svc: svc}
	w := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}

	r.POST("/books", w(h.Create)...)
	r.GET("/books", h.Find)
	r.GET("/books/:id", h.Get)
	r.PUT("/books/:id", w(h.Update)...)
	r.DELETE("/books/:id", w(h.Delete)...)
}

// Create godoc
// @Summary  Register a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    body body CreateBookRequest true "book"
// @Success  201 {object} BookResponse
// @Failure  400 {object} httpx.ErrorBody
// @Router   /books [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, err)
		return
	}
	b, err := h.svc.Create(c.Request.Context(), Book{Title: req.Title, Author: req.Author, ISBN: req.ISBN})
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.Header("Location", "/api/books/"+strconv.FormatInt(b.ID, 10))
	c.JSON(http.StatusCreated, ToResponse(b))
}

// Get godoc
// @Summary  Get a book
// @Tags     books
// @Produce  json
// @Param    id path int true "book id"
// @Success  200 {object} BookResponse
// @Failure  404
// @Router   /books/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		httpx.Fail(c, apperr.Invalid("id must be a number"))
		return
	}
	b, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(b))
}

// Update godoc
// @Summary  Update title and author of a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    id   path int               true "book id"
// @Param    body body UpdateBookRequest true "book"
// @Success  200 {object} BookResponse
// @Failure  400 {object} httpx.ErrorBody
// @Failure  404
// @Router   /books/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		httpx.Fail(c, apperr.Invalid("id must be a number"))
		return
	}
	var req UpdateBookRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, err)
		return
	}
	b, err := h.svc.Update(c.Request.Context(), Book{ID: id, Title: req.Title, Author: req.Author})
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(b))
}

// Delete godoc
// @Summary  Delete a book
// @Tags     books
// @Param    id path int true "book id"
// @Success  204
// @Failure  400 {object} httpx.ErrorBody
// @Failure  404
// @Router   /books/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		httpx.Fail(c, apperr.Invalid("id must be a number"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httpx.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Find godoc
// @Summary  Search books
// @Tags     books
// @Produce  json
// @Param    title  query string false "partial title"
// @Param    author query string false "partial author"
// @Param    isbn   query string false "exact isbn"
// @Param    page   query int    false "page (0-based)"
// @Param    size   query int    false "page size"
// @Success  200 {object} httpx.PageResult[BookResponse]
// @Router   /books [get]
func (h *Handler) Find(c *gin.Context) {
	f := Filter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		ISBN:   c.Query("isbn"),
	}
	p := httpx.ParsePage(c)
	items, total, err := h.svc.Find(c.Request.Context(), f, p)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpx.NewPageResult(toResponses(items), total, p))
}
