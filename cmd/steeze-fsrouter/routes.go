package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/core"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

func routesCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes the server would register",
		Long: `Scan and register every route tree against a throwaway router and
print the result. Nothing is served.

Examples:
  steeze-fsrouter routes
  steeze-fsrouter routes --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			return listRoutes(cfg, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any route file fails")

	return cmd
}

func listRoutes(cfg config.Config, strict bool) error {
	log := zap.NewNop()
	g := core.NewRegistrar(cfg, core.BuildDeps{}, httpx.NewChi(), log)
	rep := g.RegisterAll(core.Trees(cfg, g.Scanner, log))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATTERN\tFILE\tTREE")
	for _, r := range rep.Routes {
		tree := r.Tree
		if r.Proxy {
			tree += " (proxy)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Method, r.Pattern, r.File, tree)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, name := range rep.Missing {
		fmt.Fprintf(os.Stderr, "tree %q not found\n", name)
	}
	for _, err := range multierr.Errors(rep.Err) {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
	}
	if strict && rep.Failures > 0 {
		return fmt.Errorf("%d route file(s) failed", rep.Failures)
	}
	return nil
}
