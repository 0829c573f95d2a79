package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"teamboard/internal/api"
	"teamboard/internal/util"
)

// cliOptions holds the persistent flags shared by every subcommand.
type cliOptions struct {
	apiURL     string
	token      string
	jsonOutput bool
}

func (o *cliOptions) client() *api.Client {
	return api.NewClient(o.apiURL, o.token)
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "teamboardctl",
		Short:         "Operator CLI for the teamboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = "dev"

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api",
		util.EnvOrDefault("TEAMBOARD_API", "http://localhost:8080"), "base URL of the teamboard API")
	cmd.PersistentFlags().StringVar(&opts.token, "token",
		os.Getenv("TEAMBOARD_TOKEN"), "session token (defaults to TEAMBOARD_TOKEN)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(
		newLoginCmd(opts),
		newUsersCmd(opts),
		newTasksCmd(opts),
		newNotificationsCmd(opts),
	)

	return cmd
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
