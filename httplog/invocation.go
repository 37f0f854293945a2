package httplog

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Invocation describes one handler call. It belongs to that call only.
type Invocation struct {
	Handler    string // <Type>.<method>
	HTTPMethod string
	RequestURI string // path, no query string
	Args       []any
}

// FormatArgs renders Args as "[a, b]"
func (inv *Invocation) FormatArgs() string {
	parts := make([]string, len(inv.Args))
	for i, arg := range inv.Args {
		parts[i] = fmt.Sprintf("%+v", arg)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ResolveHandlerName shortens a runtime function name:
//
//	github.com/acme/api/users.(*UserController).Get-fm -> UserController.Get
//	github.com/acme/api/users.UserController.List-fm   -> UserController.List
//	github.com/acme/api/users.healthz                   -> users.healthz
func ResolveHandlerName(runtimeName string) string {
	name := runtimeName
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	method, isMethodValue := strings.CutSuffix(name, "-fm")

	pkg, rest, ok := strings.Cut(method, ".")
	if !ok {
		return method
	}
	if !isMethodValue && !strings.HasPrefix(rest, "(") {
		return pkg + "." + rest
	}

	rest = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(rest)
	return stripTypeParams(rest)
}

// stripTypeParams UserController[...].Get -> UserController.Get
func stripTypeParams(name string) string {
	start := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if start < 0 || end < start {
		return name
	}
	return name[:start] + name[end+1:]
}

// FuncName resolves the handler name of a function value
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return ResolveHandlerName(f.Name())
}
