// Command httplog-demo serves a small user API with the http logging interceptor installed.
//
//	httplog-demo serve --config-dir ./configs --http-logging-level DEBUG
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
