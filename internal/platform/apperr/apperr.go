package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeBusinessRule    Code = "BUSINESS_RULE" // ISBN重複・貸出中など
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

// Error はサービス層からハンドラへ渡すエラー。Messages は1件以上。
type Error struct {
	Code     Code
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Messages, "; "))
}

func NotFound(msg string) *Error     { return &Error{Code: CodeNotFound, Messages: []string{msg}} }
func Business(msg string) *Error     { return &Error{Code: CodeBusinessRule, Messages: []string{msg}} }
func Unauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Messages: []string{msg}} }
func Forbidden(msg string) *Error    { return &Error{Code: CodeForbidden, Messages: []string{msg}} }
func Internal(msg string) *Error     { return &Error{Code: CodeInternal, Messages: []string{msg}} }

func Invalid(msgs ...string) *Error {
	if len(msgs) == 0 {
		msgs = []string{"invalid request"}
	}
	return &Error{Code: CodeInvalidArgument, Messages: msgs}
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case CodeInvalidArgument, CodeBusinessRule:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
