package httpx

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/db"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPageNumber keeps Number*MaxPageSize within int64.
	MaxPageNumber = math.MaxInt64 / MaxPageSize
)

type Page = db.Page

// ParsePage reads ?page=&size=. 不正値は既定値に丸める。
func ParsePage(c *gin.Context) Page {
	p := Page{
		Number: atoiDef(c.Query("page"), 0),
		Size:   atoiDef(c.Query("size"), DefaultPageSize),
	}
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

type PageResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func NewPageResult[T any](items []T, total int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Total: total, Page: p.Number, Size: p.Size}
}

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

// ParseID parses a positive int64 path parameter.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
