package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errUserNotFound = New(10, 1, "user", "user not found", http.StatusNotFound)

func TestLayeredError_New(t *testing.T) {
	err := New(10, 1, "user", "user not found")

	assert.Equal(t, 100001, err.Code())
	assert.Equal(t, "user", err.Module())
	assert.Equal(t, "user not found", err.Message())
	assert.Equal(t, http.StatusOK, err.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, errUserNotFound.HTTPStatus())
}

func TestLayeredError_Wrap(t *testing.T) {
	cause := errors.New("record missing")
	err := errUserNotFound.Wrap(cause)

	assert.Equal(t, "user not found: record missing", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, errUserNotFound)
	assert.Same(t, errUserNotFound, errUserNotFound.Wrap(nil))
	assert.Nil(t, errUserNotFound.Unwrap(), "template must stay untouched")
}

func TestLayeredError_Copies(t *testing.T) {
	err := errUserNotFound.WithMsgf("user %d not found", 7).WithData("id", 7)

	assert.Equal(t, "user 7 not found", err.Message())
	assert.Equal(t, 7, err.Data()["id"])
	assert.Empty(t, errUserNotFound.Data())
	assert.Equal(t, "user not found", errUserNotFound.Message())
}

func TestLayeredError_As(t *testing.T) {
	wrapped := fmt.Errorf("controller: %w", ErrValidation.WithData("fields", map[string]string{"id": "required"}))

	var layered *LayeredError
	assert.True(t, errors.As(wrapped, &layered))
	assert.Equal(t, http.StatusBadRequest, layered.HTTPStatus())
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}

func TestLayeredError_String(t *testing.T) {
	assert.Equal(t, "LayeredError{code:11404, module:common, msg:resource not found}", ErrNotFound.String())
	assert.Contains(t, ErrInternal.Wrap(errors.New("db down")).String(), "cause:db down")
}
