package httplog

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestInvocation_FormatArgs(t *testing.T) {
	type getUser struct {
		ID string
	}

	assert.Equal(t, "[]", (&Invocation{}).FormatArgs())
	assert.Equal(t, "[1, two]", (&Invocation{Args: []any{1, "two"}}).FormatArgs())
	assert.Equal(t, "[&{ID:7}]", (&Invocation{Args: []any{&getUser{ID: "7"}}}).FormatArgs())
}

func TestResolveHandlerName(t *testing.T) {
	tests := []struct {
		runtime string
		want    string
	}{
		{"github.com/acme/api/users.(*UserController).Get-fm", "UserController.Get"},
		{"github.com/acme/api/users.UserController.List-fm", "UserController.List"},
		{"github.com/acme/api/users.(*Controller[...]).Get-fm", "Controller.Get"},
		{"github.com/acme/api/users.healthz", "users.healthz"},
		{"main.handler", "main.handler"},
		{"standalone", "standalone"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHandlerName(tt.runtime))
		})
	}
}

type userController struct{}

func (u *userController) Get(c *gin.Context) {}

func standaloneHandler(c *gin.Context) {}

func TestFuncName(t *testing.T) {
	ctl := &userController{}

	assert.Equal(t, "userController.Get", FuncName(ctl.Get))
	assert.Equal(t, "httplog.standaloneHandler", FuncName(standaloneHandler))
	assert.Equal(t, "", FuncName(nil))
	assert.Equal(t, "", FuncName("not a func"))

	var nilFunc func()
	assert.Equal(t, "", FuncName(nilFunc))
}
