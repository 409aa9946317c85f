package books

type CreateBookRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Author string `json:"author" binding:"required,max=255"`
	ISBN   string `json:"isbn" binding:"required,max=32"`
}

// UpdateBookRequest: isbn は受け取っても無視する
type UpdateBookRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Author string `json:"author" binding:"required,max=255"`
	ISBN   string `json:"isbn,omitempty"`
}

type BookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

func ToResponse(b Book) BookResponse {
	return BookResponse{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
}

func toResponses(in []Book) []BookResponse {
	out := make([]BookResponse, 0, len(in))
	for _, b := range in {
		out = append(out, ToResponse(b))
	}
	return out
}
