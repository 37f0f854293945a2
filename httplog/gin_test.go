package httplog

import (
	"errors"
	"net/http"
	"testing"

	"github.com/KOMKZ/go-yogan-httplog/errcode"
	"github.com/KOMKZ/go-yogan-httplog/logger"
	"github.com/KOMKZ/go-yogan-httplog/testutil"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUserNotFound = errcode.New(10, 1, "user", "not found", http.StatusNotFound)

type UserController struct{}

func (u *UserController) Get(c *gin.Context) {
	if c.Param("id") == "404" {
		_ = c.Error(errUserNotFound)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (u *UserController) Crash(c *gin.Context) {
	panic("kaboom")
}

type GetUserRequest struct {
	ID string `uri:"id"`
}

func (r *GetUserRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.ID, validation.Required, validation.Length(1, 8)))
}

type UserResponse struct {
	ID string `json:"id"`
}

func (u *UserController) Show(c *gin.Context, req *GetUserRequest) (*UserResponse, error) {
	if req.ID == "404" {
		return nil, errUserNotFound
	}
	return &UserResponse{ID: req.ID}, nil
}

func newEngine(icpt *Interceptor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctl := &UserController{}

	engine := gin.New()
	api := engine.Group("/", icpt.Middleware())
	api.GET("/users/:id", ctl.Get)
	api.GET("/crash", ctl.Crash)
	api.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	engine.GET("/typed/users/:id", Handle(icpt, ctl.Show))
	engine.GET("/named/users/:id", HandleNamed(icpt, "UserController.get", ctl.Show))
	return engine
}

func TestMiddleware_Success(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(DefaultConfig(), rec))

	resp := testutil.GET("/users/1").WithQuery("verbose", "true").Do(engine)

	assert.Equal(t, http.StatusOK, resp.Status())
	logs := rec.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "T1 Java School: HTTP GET Request to /users/1 UserController.Get with arguments: [id=1, verbose=true]", logs[0].Message)
	assert.Equal(t, "T1 Java School: HTTP GET Response from /users/1 UserController.Get", logs[1].Message)
}

func TestMiddleware_HandlerError(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(NewConfig(true, SeverityError), rec))

	resp := testutil.GET("/users/404").Do(engine)

	assert.Equal(t, http.StatusNotFound, resp.Status())
	logs := rec.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "ERROR", logs[0].Level)
	assert.Equal(t, "T1 Java School: Exception in GET UserController.Get: not found", logs[1].Message)
	assert.Equal(t, "ERROR", logs[1].Level)
}

func TestMiddleware_Panic(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	icpt := New(DefaultConfig(), rec)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	var recovered any
	engine.Use(func(c *gin.Context) {
		defer func() {
			recovered = recover()
			c.AbortWithStatus(http.StatusInternalServerError)
		}()
		c.Next()
	})
	engine.GET("/crash", icpt.Middleware(), (&UserController{}).Crash)

	resp := testutil.GET("/crash").Do(engine)

	assert.Equal(t, http.StatusInternalServerError, resp.Status())
	assert.Equal(t, "kaboom", recovered)
	assert.True(t, rec.HasLog("INFO", "T1 Java School: Exception in GET UserController.Crash: kaboom"))
}

func TestMiddleware_DisabledAndSkipped(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(NewConfig(false, SeverityInfo), rec))

	assert.Equal(t, http.StatusOK, testutil.GET("/users/1").Do(engine).Status())
	assert.Equal(t, http.StatusNotFound, testutil.GET("/users/404").Do(engine).Status())
	assert.Equal(t, 0, rec.CountLogs(""))

	rec = logger.NewTestCtxLogger()
	engine = newEngine(New(NewConfig(true, SeverityInfo, WithSkipPaths("/health")), rec))
	assert.Equal(t, http.StatusOK, testutil.GET("/health").Do(engine).Status())
	assert.Equal(t, 0, rec.CountLogs(""))
}

func TestMiddleware_ErrorBeforeHandlerNotAttributed(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	icpt := New(DefaultConfig(), rec)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		_ = c.Error(errors.New("earlier failure"))
		c.Next()
	})
	engine.GET("/users/:id", icpt.Middleware(), (&UserController{}).Get)

	testutil.GET("/users/1").Do(engine)

	assert.True(t, rec.HasLogContaining("INFO", "Response from /users/1"))
	assert.False(t, rec.HasLogContaining("INFO", "Exception"))
}

func TestHandle_Typed(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(NewConfig(true, SeverityDebug), rec))

	resp := testutil.GET("/typed/users/7").Do(engine)

	assert.Equal(t, http.StatusOK, resp.Status())
	assert.True(t, rec.HasLog("DEBUG", "T1 Java School: HTTP GET Request to /typed/users/7 UserController.Show with arguments: [&{ID:7}]"))
	assert.True(t, rec.HasLog("DEBUG", "T1 Java School: HTTP GET Response from /typed/users/7 UserController.Show"))

	var body struct {
		Data UserResponse `json:"data"`
	}
	require.NoError(t, resp.JSON(&body))
	assert.Equal(t, "7", body.Data.ID)
}

func TestHandleNamed_ScenarioB(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(DefaultConfig(), rec))

	resp := testutil.GET("/named/users/404").Do(engine)

	assert.Equal(t, http.StatusNotFound, resp.Status())
	logs := rec.Logs()
	require.Len(t, logs, 2)
	assert.Contains(t, logs[0].Message, "Request to /named/users/404 UserController.get")
	assert.Equal(t, "T1 Java School: Exception in GET UserController.get: not found", logs[1].Message)

	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	require.NoError(t, resp.JSON(&body))
	assert.Equal(t, errUserNotFound.Code(), body.Code)
	assert.Equal(t, "not found", body.Msg)
}

func TestHandle_ValidationFailureNotIntercepted(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(DefaultConfig(), rec))

	resp := testutil.GET("/typed/users/123456789").Do(engine)

	assert.Equal(t, http.StatusBadRequest, resp.Status())
	assert.Equal(t, 0, rec.CountLogs(""))
}

func TestHandle_Disabled(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	engine := newEngine(New(NewConfig(false, SeverityInfo), rec))

	enabledResp := testutil.GET("/typed/users/7").Do(newEngine(New(DefaultConfig(), logger.NewTestCtxLogger())))
	disabledResp := testutil.GET("/typed/users/7").Do(engine)

	assert.Equal(t, enabledResp.Status(), disabledResp.Status())
	assert.Equal(t, enabledResp.Body(), disabledResp.Body())
	assert.Equal(t, 0, rec.CountLogs(""))
}
