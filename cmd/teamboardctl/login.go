package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *cliOptions) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Obtain a session token",
		Long:  "Obtain a session token. Export it as TEAMBOARD_TOKEN for later commands.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			password := strings.TrimSpace(string(raw))

			session, err := opts.client().Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(session)
			}
			fmt.Printf("logged in as %s (%s)\n", session.Profile.Username, session.Capabilities.RoleDisplayName)
			fmt.Println(session.Token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}
