package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"eshelf/cmd/cli/authentication"
	"eshelf/internal/microservices/http-api/dto"
)

// auth.go handles authentication commands: register, login, logout and whoami.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the eShelf API. Supports registration, login, logout and whoami.`,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new eShelf account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// get data from flags
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := newClient().Register(ctx, req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := storeSession(resp); err != nil {
			return err
		}
		success(cmd, "Registered and signed in as %s", resp.User.Username)
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login with username or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := newClient().Login(ctx, req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := storeSession(resp); err != nil {
			return err
		}
		success(cmd, "Successfully logged in as %s (%s)", resp.User.Username, resp.User.Role)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		success(cmd, "Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		me, err := c.Me(ctx)
		if err != nil {
			return err
		}
		printf(cmd, "ID:       %s\nUsername: %s\nEmail:    %s\nRole:     %s\n", me.ID, me.Username, me.Email, me.Role)
		printf(cmd, "Favorites: %d  Bookmarks: %d\n", len(me.Favorites), len(me.Bookmarks))
		return nil
	},
}

func storeSession(resp *dto.AuthResponse) error {
	creds := &authentication.StoredCredentials{
		Token:    resp.Token,
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Role:     resp.User.Role,
	}
	if err := authentication.StoreTokens(creds); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringP("username", "u", "", "Username or email")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
