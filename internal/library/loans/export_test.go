package loans

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/library/books"
)

func TestParseEncoding(t *testing.T) {
	tests := map[string]string{
		"":          EncodingUTF8,
		"UTF-8":     EncodingUTF8,
		"utf8":      EncodingUTF8,
		"Shift_JIS": EncodingShiftJIS,
		"sjis":      EncodingShiftJIS,
		"cp932":     EncodingShiftJIS,
	}
	for in, want := range tests {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEncoding("ebcdic")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	items := []Loan{
		{ID: 1, Book: books.Book{ISBN: "123", Title: "Dom Casmurro", Author: "Machado, de Assis"}, Customer: "Fulano", LoanDate: date(2026, 10, 1)},
		{ID: 2, Book: books.Book{ISBN: "456", Title: "T", Author: "A"}, Customer: "Beltrano", LoanDate: date(2026, 10, 2), Returned: ptr(false)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items, EncodingUTF8))
	want := "loan_id,isbn,title,author,customer,loan_date,returned\n" +
		"1,123,Dom Casmurro,\"Machado, de Assis\",Fulano,2026-10-01,\n" +
		"2,456,T,A,Beltrano,2026-10-02,false\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVShiftJISReplacesUnsupported(t *testing.T) {
	items := []Loan{{ID: 1, Book: books.Book{ISBN: "1", Title: "本😀", Author: "著者"}, Customer: "c", LoanDate: date(2026, 10, 1)}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items, EncodingShiftJIS))
	assert.NotContains(t, buf.String(), "😀")
	assert.Contains(t, buf.String(), "2026-10-01")
}
