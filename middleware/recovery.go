package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/KOMKZ/go-yogan-httplog/errcode"
	"github.com/KOMKZ/go-yogan-httplog/httpx"
	"github.com/KOMKZ/go-yogan-httplog/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryModule logger module receiving recovered panics
const RecoveryModule = "gin-error"

// Recovery replaces gin.Recovery: the panic and its stack go to the logger,
// the client gets a 500 envelope without internals.
// Install it before httplog's middleware so the interceptor can log the panic first.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorCtx(c.Request.Context(), RecoveryModule, "panic recovered",
					zap.Any("error", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
					zap.String("stack", string(debug.Stack())),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, httpx.Response{
					Code: errcode.ErrInternal.Code(),
					Msg:  errcode.ErrInternal.Message(),
				})
			}
		}()

		c.Next()
	}
}
