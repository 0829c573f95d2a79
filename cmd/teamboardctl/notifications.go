package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect your notifications",
	}
	cmd.AddCommand(newNotificationsListCmd(opts))
	return cmd
}

func newNotificationsListCmd(opts *cliOptions) *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := opts.client().ListNotifications(cmd.Context())
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(notes)
			}
			for _, n := range notes {
				if unreadOnly && n.Read {
					continue
				}
				marker := " "
				if !n.Read {
					marker = "*"
				}
				fmt.Printf("%s %s\t%s\t%s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Type, n.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only show unread notifications")
	return cmd
}
