package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"

	// route files register themselves with manifest.Default
	_ "github.com/joeydtaylor/steeze-fsrouter/app"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "steeze-fsrouter",
		Short: "File-system routed HTTP service",
		Long: `steeze-fsrouter serves the route files under app/routes and
app/modules/<name>/routes. A file's path and name decide its URL and
verbs; its exports decide the handler and the hooks around it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfgPath != "" {
				os.Setenv(config.PathEnv, cfgPath)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (TOML or YAML); overrides $STEEZE_CONFIG")

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		tokenCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
