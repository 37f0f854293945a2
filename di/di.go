// Package di wires the logging stack with samber/do.
//
//	injector := di.New()
//	di.RegisterCoreProviders(injector, di.ConfigOptions{ConfigPath: "./configs", EnvPrefix: "HTTPLOG"})
//	icpt := do.MustInvoke[*httplog.Interceptor](injector)
package di

import "github.com/samber/do/v2"

// Injector alias of do.Injector
type Injector = do.Injector

// RootScope alias of do.RootScope
type RootScope = do.RootScope

// New creates a root injector
var New = do.New
