package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crucial707/highlow/cmd/cli/client"
	"github.com/crucial707/highlow/cmd/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InitAuth registers the account commands (register, login, logout) on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

type credentials struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd, username, password)
			if err != nil {
				return err
			}

			var created struct {
				ID       int    `json:"id"`
				UserName string `json:"user_name"`
				Bank     int    `json:"bank"`
			}
			if err := client.Do("POST", "/users", creds, &created, false); err != nil {
				return fmt.Errorf("register failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d, bank %d). You can now log in.\n",
				created.UserName, created.ID, created.Bank)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "User name to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token locally",
		Long:  "Authenticate with the high-low API and store the bearer token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd, username, password)
			if err != nil {
				return err
			}

			var loginResp struct {
				User struct {
					ID       int    `json:"id"`
					UserName string `json:"user_name"`
					Bank     int    `json:"bank"`
				} `json:"user"`
				AuthToken string `json:"authToken"`
			}
			if err := client.Do("POST", "/login", creds, &loginResp, false); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if loginResp.AuthToken == "" {
				return errors.New("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.AuthToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %d, bank %d).\n",
				loginResp.User.UserName, loginResp.User.ID, loginResp.User.Bank)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "User name to log in as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.ClearToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// readCredentials fills in whatever the flags left empty by prompting.
// Passwords are read without echo when stdin is a terminal.
func readCredentials(cmd *cobra.Command, username, password string) (credentials, error) {
	in := bufio.NewReader(cmd.InOrStdin())

	if username == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "User name: ")
		line, err := readLine(in)
		if err != nil {
			return credentials{}, err
		}
		username = line
	}

	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return credentials{}, err
			}
			password = string(b)
		} else {
			line, err := readLine(in)
			if err != nil {
				return credentials{}, err
			}
			password = line
		}
	}

	if username == "" {
		return credentials{}, errors.New("user name is required")
	}
	return credentials{UserName: username, Password: password}, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
