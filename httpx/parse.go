package httpx

import (
	"github.com/KOMKZ/go-yogan-httplog/errcode"
	"github.com/gin-gonic/gin"
)

// Parse fills req from path params (uri tag), query (form tag) and a JSON body (json tag).
// Missing uri/form tags are not errors; a malformed body is reported as errcode.ErrBadRequest.
func Parse(c *gin.Context, req interface{}) error {
	if len(c.Params) > 0 {
		_ = c.ShouldBindUri(req)
	}
	_ = c.ShouldBindQuery(req)

	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			return errcode.ErrBadRequest.Wrap(err)
		}
	}
	return nil
}
