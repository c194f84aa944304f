package command

// root.go defines the root command for the eshelf CLI.
// set up the global flags here.

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eshelf/cmd/cli/authentication"
	"eshelf/cmd/cli/command/client"
)

var (
	apiURL  string        // Global flag for API server URL
	timeout time.Duration // per-command request timeout
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eshelf",
	Short: "eshelf - eShelf library command line interface",
	Long: `eshelf is a command line client for the eShelf online library. Use it to:
- Browse, search and inspect books
- Keep favorites, bookmarks and reading progress
- Review books, donate and send feedback
- Get book recommendations

Use "eshelf [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("ESHELF_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API gateway URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, booksCmd, libraryCmd, reviewCmd, donateCmd, feedbackCmd, recommendCmd)
}

// commandContext bounds one command's requests.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// newClient returns an anonymous client.
func newClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}

// authenticatedClient returns a client carrying the stored session token.
func authenticatedClient() (*client.HTTPClient, *authentication.StoredCredentials, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, nil, err
	}
	c := newClient()
	c.SetToken(creds.Token)
	return c, creds, nil
}

// optionalClient signs requests when a session exists.
func optionalClient() *client.HTTPClient {
	if c, _, err := authenticatedClient(); err == nil {
		return c
	}
	return newClient()
}

func success(cmd *cobra.Command, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
