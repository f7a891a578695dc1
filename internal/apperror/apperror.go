// Package apperror defines the caller-visible error taxonomy and maps
// validation failures to field-level messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 错误码，随响应体的 error 字段返回
const (
	CodeValidation         = "validation_error"
	CodeMissingToken       = "missing_token"
	CodeTokenExpired       = "token_expired"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeInternal           = "internal_error"
)

// Error is an error that carries the HTTP status and message shown to the caller.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  []map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, code, format string, args ...interface{}) *Error {
	return &Error{Status: status, Code: code, Message: fmt.Sprintf(format, args...)}
}

// BadRequest 400
func BadRequest(format string, args ...interface{}) *Error {
	return newError(http.StatusBadRequest, CodeValidation, format, args...)
}

// Unauthorized 401，code 区分缺失、过期、无效令牌与登录失败
func Unauthorized(code, format string, args ...interface{}) *Error {
	return newError(http.StatusUnauthorized, code, format, args...)
}

// NotFound 404
func NotFound(format string, args ...interface{}) *Error {
	return newError(http.StatusNotFound, CodeNotFound, format, args...)
}

// Conflict 409
func Conflict(format string, args ...interface{}) *Error {
	return newError(http.StatusConflict, CodeConflict, format, args...)
}

// Internal 500，消息保持通用，具体原因只写日志
func Internal() *Error {
	return newError(http.StatusInternalServerError, CodeInternal, "internal server error")
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromValidation converts validator errors into a 400 carrying one message per field.
// Field names are whatever the validator reports, which is the JSON name once a tag
// name func is registered.
func FromValidation(err error) *Error {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) {
		return BadRequest("invalid request payload")
	}

	fields := make([]map[string]string, 0, len(validationErr))
	messages := make([]string, 0, len(validationErr))
	for _, e := range validationErr {
		msg := fieldMessage(e)
		fields = append(fields, map[string]string{e.Field(): msg})
		messages = append(messages, e.Field()+" "+msg)
	}

	appErr := BadRequest("%s", strings.Join(messages, "; "))
	appErr.Fields = fields
	return appErr
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		if e.Param() == "0" {
			return "must be a positive number"
		}
		return "must be greater than " + e.Param()
	case "min":
		return "must be at least " + e.Param() + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "notblank":
		return "must not be blank"
	default:
		return "is invalid"
	}
}
