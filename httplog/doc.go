// Package httplog logs every intercepted HTTP handler invocation.
//
// An Interceptor emits a REQUEST entry before the handler runs, then either a
// RESPONSE entry or an ERROR entry. All three go through the same sink method,
// chosen by the configured Severity. A disabled Config turns the interceptor
// into a plain passthrough that logs nothing.
//
// Installing it on a gin router group:
//
//	icpt := httplog.New(httplog.NewConfig(true, httplog.SeverityDebug), logger.GetLogger("http-logging"))
//	api := engine.Group("/api", icpt.Middleware())
//	api.GET("/users/:id", users.Get)
//
// or per typed handler:
//
//	engine.GET("/users/:id", httplog.Handle(icpt, users.Get))
//
// Errors raised by the handler are logged once and returned unchanged; a panic
// is logged and re-raised with the same value.
package httplog
