// Package httpx provides typed gin handlers and the unified JSON response envelope
package httpx

import (
	"errors"
	"net/http"

	"github.com/KOMKZ/go-yogan-httplog/errcode"
	"github.com/gin-gonic/gin"
)

// Response unified response envelope
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson writes a 200 success envelope
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// NoRouteHandler answers unknown routes with a 404 envelope
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{
			Code: http.StatusNotFound,
			Msg:  "route not found: " + c.Request.Method + " " + c.Request.URL.Path,
		})
	}
}

// NoMethodHandler answers unsupported methods with a 405 envelope
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, Response{
			Code: http.StatusMethodNotAllowed,
			Msg:  "method not allowed: " + c.Request.Method + " " + c.Request.URL.Path,
		})
	}
}

// HandleError writes err as an envelope.
// A LayeredError anywhere in the chain decides status, code and message;
// anything else becomes a 500 without leaking the error text.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var layeredErr *errcode.LayeredError
	if errors.As(err, &layeredErr) {
		resp := Response{
			Code: layeredErr.Code(),
			Msg:  layeredErr.Message(),
		}
		if len(layeredErr.Data()) > 0 {
			resp.Data = layeredErr.Data()
		}
		c.JSON(layeredErr.HTTPStatus(), resp)
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Code: errcode.ErrInternal.Code(),
		Msg:  errcode.ErrInternal.Message(),
	})
}
