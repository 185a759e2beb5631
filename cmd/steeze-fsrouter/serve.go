package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/serverfx"
)

func serveCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Scan the route trees, register every route file and serve until
interrupted. Route files that fail to load are logged and skipped.`,
		Run: func(cmd *cobra.Command, args []string) {
			opts := []fx.Option{serverfx.Module(serverfx.WithService("steeze-fsrouter"))}
			if quiet {
				opts = append(opts, fx.NopLogger)
			} else {
				opts = append(opts, fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l.Named("fx")}
				}))
			}
			fx.New(opts...).Run()
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not log dependency injection events")

	return cmd
}
