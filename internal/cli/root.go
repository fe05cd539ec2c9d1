// Package cli implements the wellnessctl command line client for the
// WellnessHub API.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kanishk-singh19/Wellness/internal/client"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "wellnessctl",
	Short: "WellnessHub command line client",
	Long: `wellnessctl talks to a WellnessHub server: register and log in,
manage your wellness sessions, and browse the public feed.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultURL := os.Getenv("WELLNESSHUB_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "WellnessHub server URL")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// newClient builds an API client carrying the saved token, when one
// exists.
func newClient() *client.Client {
	c := client.New(serverURL)
	if creds, err := loadCredentials(); err == nil {
		c.SetToken(creds.Token)
	}
	return c
}
