package httplog

import (
	"sort"

	"github.com/KOMKZ/go-yogan-httplog/httpx"
	"github.com/gin-gonic/gin"
)

// Middleware intercepts every route of the group it is installed on.
// The handler name comes from gin's last handler; a handler raises an error with c.Error,
// and the last error added while it ran is the one logged.
func (i *Interceptor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		inv := &Invocation{
			Handler:    ResolveHandlerName(c.HandlerName()),
			HTTPMethod: c.Request.Method,
			RequestURI: c.Request.URL.Path,
			Args:       requestArgs(c),
		}

		errCount := len(c.Errors)
		_, _ = i.Intercept(c.Request.Context(), inv, func() (any, error) {
			c.Next()
			if len(c.Errors) > errCount {
				return nil, c.Errors.Last().Err
			}
			return nil, nil
		})
	}
}

// requestArgs route params in declaration order, then query params sorted by key
func requestArgs(c *gin.Context) []any {
	var args []any
	for _, p := range c.Params {
		args = append(args, p.Key+"="+p.Value)
	}

	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range query[k] {
			args = append(args, k+"="+v)
		}
	}
	return args
}

// Handle wraps a typed handler, naming it after the function value
func Handle[Req any, Resp any](i *Interceptor, h httpx.HandlerFunc[Req, Resp]) gin.HandlerFunc {
	return HandleNamed(i, FuncName(h), h)
}

// HandleNamed wraps a typed handler under an explicit name.
// Binding and validation run before interception; the handler's error is logged, then rendered.
func HandleNamed[Req any, Resp any](i *Interceptor, name string, h httpx.HandlerFunc[Req, Resp]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := httpx.Bind[Req](c)
		if err != nil {
			httpx.HandleError(c, err)
			return
		}

		inv := &Invocation{
			Handler:    name,
			HTTPMethod: c.Request.Method,
			RequestURI: c.Request.URL.Path,
			Args:       []any{req},
		}
		result, err := i.Intercept(c.Request.Context(), inv, func() (any, error) {
			return h(c, req)
		})

		resp, _ := result.(*Resp)
		httpx.Respond(c, resp, err)
	}
}
