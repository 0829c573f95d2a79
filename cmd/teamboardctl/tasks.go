package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTasksCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect the board",
	}
	cmd.AddCommand(newTasksListCmd(opts))
	return cmd
}

func newTasksListCmd(opts *cliOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := opts.client().ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			if status != "" {
				filtered := tasks[:0]
				for _, t := range tasks {
					if string(t.Status) == status {
						filtered = append(filtered, t)
					}
				}
				tasks = filtered
			}

			if opts.jsonOutput {
				return writeJSON(tasks)
			}
			for _, t := range tasks {
				labels := ""
				if len(t.Labels) > 0 {
					labels = " [" + strings.Join(t.Labels, ",") + "]"
				}
				fmt.Printf("%d\t%s\t%s\t%s%s\n", t.ID, t.Status, t.Priority, t.Title, labels)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only show tasks in this column (todo, progress, review, done)")
	return cmd
}
