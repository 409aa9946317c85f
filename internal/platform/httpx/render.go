package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"library-api/internal/platform/apperr"
)

// ErrorBody はエラー応答の形式 {"errors": ["..."]}
type ErrorBody struct {
	Errors []string `json:"errors"`
}

// Fail writes err to the response. Not-found is status only.
func Fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusNotFound {
		c.AbortWithStatus(status)
		return
	}

	var e *apperr.Error
	if status == http.StatusInternalServerError || !errors.As(err, &e) {
		logrus.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(c),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Errors: []string{"internal server error"}})
		return
	}
	c.AbortWithStatusJSON(status, ErrorBody{Errors: e.Messages})
}

var registerOnce sync.Once

// JSONフィールド名でメッセージを出すためのタグ名登録
func useJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// BindJSON decodes the body into dst and turns validation failures into apperr.Invalid
// with one message per field.
func BindJSON(c *gin.Context, dst any) error {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return apperr.Invalid(msgs...)
		}
		return apperr.Invalid("invalid json")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
