package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
)

func tokenCmd() *cobra.Command {
	var (
		user string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with the configured secret",
		Long: `Issue an HS256 token for local testing. Requires auth.jwt_secret
(or AUTH_JWT_SECRET).

Examples:
  steeze-fsrouter token --user ada
  steeze-fsrouter token --user root --role admin --ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			tok, err := auth.ProvideAuthentication(cfg).Sign(auth.User{
				Username: user,
				Role:     auth.Role{Name: role},
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "dev", "Subject of the token")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "Token lifetime")

	return cmd
}
