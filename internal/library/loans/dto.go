package loans

import (
	"library-api/internal/library/books"
)

type CreateLoanRequest struct {
	ISBN     string `json:"isbn" binding:"required,max=32"`
	Customer string `json:"customer" binding:"required,max=255"`
}

type CreateLoanResponse struct {
	ID int64 `json:"id"`
}

type UpdateLoanRequest struct {
	Returned *bool `json:"returned" binding:"required"`
}

type LoanResponse struct {
	ID       int64              `json:"id"`
	Book     books.BookResponse `json:"book"`
	Customer string             `json:"customer"`
	LoanDate string             `json:"loan_date"`
	Returned *bool              `json:"returned"`
}

type LateLoansResponse struct {
	Cutoff string         `json:"cutoff"`
	Items  []LoanResponse `json:"items"`
}

func toResponse(l Loan) LoanResponse {
	return LoanResponse{
		ID:       l.ID,
		Book:     books.ToResponse(l.Book),
		Customer: l.Customer,
		LoanDate: l.LoanDate.Format(DateLayout),
		Returned: l.Returned,
	}
}

func toResponses(in []Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(in))
	for _, l := range in {
		out = append(out, toResponse(l))
	}
	return out
}
