// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authdesk",
	Short: "authdesk manages authority accounts and authorizes realtime chat channels",
	Long: `authdesk is a JSON API that creates, updates and deletes authority
profiles together with their user accounts, and signs realtime (Pusher)
channel subscriptions for the members of a chat room.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
