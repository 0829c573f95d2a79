package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"teamboard/internal/api"
)

func newUsersCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		newUsersListCmd(opts),
		newUsersCreateCmd(opts),
		newUsersSetRoleCmd(opts),
	)
	return cmd
}

func newUsersListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := opts.client().ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(users)
			}
			for _, u := range users {
				fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.DisplayName)
			}
			return nil
		},
	}
}

func newUsersCreateCmd(opts *cliOptions) *cobra.Command {
	var role, displayName string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user account (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}

			user, err := opts.client().CreateUser(cmd.Context(), api.UserCreateRequest{
				Username:    args[0],
				DisplayName: displayName,
				Role:        role,
				Password:    strings.TrimSpace(string(raw)),
			})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(user)
			}
			fmt.Printf("created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "viewer", "role for the new user")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name (defaults to the username)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newUsersSetRoleCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			user, err := opts.client().SetRole(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(user)
			}
			fmt.Printf("user %s is now %s\n", user.Username, user.Role)
			return nil
		},
	}
}
