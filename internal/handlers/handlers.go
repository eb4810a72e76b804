// Package handlers turns HTTP requests into service calls and shapes the
// JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
)

const (
	isoLayout        = "2006-01-02T15:04:05.000Z07:00"
	dateOnlyLayout   = "2006-01-02"
	msgInternalError = service.MsgInternal
	msgInvalidBody   = "Corpo da requisição inválido"
)

// nullableString tells an absent JSON field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.Value)
}

// isoTime renders as ISO-8601 UTC with milliseconds.
type isoTime time.Time

func (t isoTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(isoLayout) + `"`), nil
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes and validates the body, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidBody
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("'%s' é obrigatório", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("'%s' deve ser um e-mail válido", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("'%s' deve ter no mínimo %s caracteres", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("'%s' é inválido", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}

// parseDate accepts RFC 3339 timestamps and plain dates (midnight UTC).
func parseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q", value)
	}
	return t, true, nil
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps service errors to their status; anything else is logged
// and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	if serr, ok := service.AsError(err); ok {
		c.JSON(statusFor(serr.Kind), gin.H{"message": serr.Message})
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"user_id": middleware.UserID(c),
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
}

func mapAll[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
