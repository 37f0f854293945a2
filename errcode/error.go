// Package errcode provides layered business errors carrying a code and an HTTP status.
// Code format: MMBBBB (MM = module code, BBBB = business code).
package errcode

import (
	"fmt"
	"maps"
	"net/http"
)

// LayeredError business error with code, HTTP status, context data and cause
type LayeredError struct {
	module     string
	code       int
	msg        string
	httpStatus int
	data       map[string]interface{}
	cause      error
}

// New creates a LayeredError; httpStatus defaults to 200
func New(moduleCode, businessCode int, module, msg string, httpStatus ...int) *LayeredError {
	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &LayeredError{
		module:     module,
		code:       moduleCode*10000 + businessCode,
		msg:        msg,
		httpStatus: status,
		data:       make(map[string]interface{}),
	}
}

func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code full error code
func (e *LayeredError) Code() int {
	return e.code
}

// Module module name
func (e *LayeredError) Module() string {
	return e.module
}

// Message message without the cause
func (e *LayeredError) Message() string {
	return e.msg
}

// HTTPStatus status code written to the client
func (e *LayeredError) HTTPStatus() int {
	return e.httpStatus
}

// Data context data returned to the client
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Unwrap supports errors.Is / errors.As through the cause
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// WithMsgf returns a copy with a formatted message
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData returns a copy with key set in the context data
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := *e
	clone.data = maps.Clone(e.data)
	if clone.data == nil {
		clone.data = make(map[string]interface{})
	}
	clone.data[key] = value
	return &clone
}

// Wrap returns a copy carrying cause; a nil cause returns e
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Is matches by code, so copies made by With*/Wrap still match their template
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	if !ok {
		return false
	}
	return e.code == t.code
}

// String debug representation including the cause
func (e *LayeredError) String() string {
	if e.cause != nil {
		return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s, cause:%v}",
			e.code, e.module, e.msg, e.cause)
	}
	return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s}", e.code, e.module, e.msg)
}
