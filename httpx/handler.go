package httpx

import (
	"github.com/KOMKZ/go-yogan-httplog/validator"
	"github.com/gin-gonic/gin"
)

// HandlerFunc typed controller signature
type HandlerFunc[Req any, Resp any] func(c *gin.Context, req *Req) (*Resp, error)

// Bind parses the request and validates it when Req implements validator.Validatable
func Bind[Req any](c *gin.Context) (*Req, error) {
	var req Req
	if err := Parse(c, &req); err != nil {
		return nil, err
	}
	if v, ok := any(&req).(validator.Validatable); ok {
		if err := validator.ValidateRequest(v); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// Respond writes resp on success or the error envelope on failure
func Respond[Resp any](c *gin.Context, resp *Resp, err error) {
	if err != nil {
		HandleError(c, err)
		return
	}
	OkJson(c, resp)
}

// Wrap adapts a typed handler to gin: bind, validate, call, respond
func Wrap[Req any, Resp any](handler HandlerFunc[Req, Resp]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := Bind[Req](c)
		if err != nil {
			HandleError(c, err)
			return
		}
		resp, err := handler(c, req)
		Respond(c, resp, err)
	}
}
