package apperr

import (
	"errors"
	"net/http"
)

// Code 错误分类，网关层据此映射 HTTP 状态码
type Code string

const (
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict_already_exists"
	CodeInsufficientRole Code = "forbidden_insufficient_role"
	CodeLastOwner        Code = "forbidden_last_owner"
	CodeInvalidOperation Code = "invalid_operation"
	CodeValidation       Code = "validation_error"
)

type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Msg
}

// Is 按 Code 分类比较，便于 errors.Is(err, apperr.NotFound(""))
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func NotFound(msg string) *Error         { return &Error{Code: CodeNotFound, Msg: msg} }
func Conflict(msg string) *Error         { return &Error{Code: CodeConflict, Msg: msg} }
func InsufficientRole(msg string) *Error { return &Error{Code: CodeInsufficientRole, Msg: msg} }
func LastOwner(msg string) *Error        { return &Error{Code: CodeLastOwner, Msg: msg} }
func InvalidOperation(msg string) *Error { return &Error{Code: CodeInvalidOperation, Msg: msg} }
func Validation(msg string) *Error       { return &Error{Code: CodeValidation, Msg: msg} }

// CodeOf 取出错误分类；非本包错误返回 false
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// HTTPStatus 错误到状态码的统一映射
func HTTPStatus(err error) int {
	code, ok := CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInsufficientRole, CodeLastOwner:
		return http.StatusForbidden
	case CodeInvalidOperation:
		return http.StatusUnprocessableEntity
	case CodeValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
