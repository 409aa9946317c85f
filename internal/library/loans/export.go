package loans

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"library-api/internal/platform/apperr"
)

const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

var csvHeader = []string{"loan_id", "isbn", "title", "author", "customer", "loan_date", "returned"}

// ContentType returns the Content-Type for a CSV in enc.
func ContentType(enc string) string {
	if enc == EncodingShiftJIS {
		return "text/csv; charset=Shift_JIS"
	}
	return "text/csv; charset=utf-8"
}

// ParseEncoding accepts "", utf-8/utf8 and shift_jis/sjis/cp932.
func ParseEncoding(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "shift_jis", "sjis", "cp932":
		return EncodingShiftJIS, nil
	}
	return "", apperr.Invalid("encoding must be utf-8 or shift_jis")
}

// WriteCSV writes loans as CSV. Shift_JIS では表現できない文字は置換する
func WriteCSV(w io.Writer, items []Loan, enc string) error {
	out := w
	var tw io.WriteCloser
	if enc == EncodingShiftJIS {
		tw = transform.NewWriter(w, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		out = tw
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range items {
		returned := ""
		if l.Returned != nil {
			returned = strconv.FormatBool(*l.Returned)
		}
		record := []string{
			strconv.FormatInt(l.ID, 10),
			l.Book.ISBN,
			l.Book.Title,
			l.Book.Author,
			l.Customer,
			l.LoanDate.Format(DateLayout),
			returned,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}
