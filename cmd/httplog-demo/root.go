package main

import (
	"github.com/KOMKZ/go-yogan-httplog/application"
	"github.com/KOMKZ/go-yogan-httplog/flagx"
	"github.com/spf13/cobra"
)

var version = "dev"

// serveOptions flags of the serve command; config-tagged ones override the configuration files
type serveOptions struct {
	ConfigDir string `flag:"config-dir,c" usage:"directory holding config.yaml and <env>.yaml" default:"./configs"`
	EnvPrefix string `flag:"env-prefix" usage:"environment variable prefix" default:"HTTPLOG"`
	Port      int    `flag:"port,p" usage:"listen port" config:"api_server.port"`
	Enabled   bool   `flag:"http-logging-enabled" usage:"log every intercepted request" default:"true" config:"http.logging.enabled"`
	Level     string `flag:"http-logging-level" usage:"INFO, DEBUG, WARN or ERROR" default:"INFO" config:"http.logging.level"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "httplog-demo",
		Short:        "Demo user API with request/response logging",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flagx.ParseFlags(cmd, &opts); err != nil {
				return err
			}
			app, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}

	// tags are static, registration cannot fail
	_ = flagx.BindFlags(cmd, &opts)
	return cmd
}

// newApp builds the application; only flags set on the command line override the files
func newApp(cmd *cobra.Command, opts serveOptions) (*application.Application, error) {
	app, err := application.New(application.Options{
		ConfigPath:   opts.ConfigDir,
		EnvPrefix:    opts.EnvPrefix,
		Flags:        cmd.Flags(),
		FlagBindings: flagx.ConfigBindings(&opts),
	})
	if err != nil {
		return nil, err
	}

	return app.WithVersion(version).RegisterRoutes(application.RouterFunc(registerRoutes)), nil
}
