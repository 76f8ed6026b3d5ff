package users

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/crucial707/highlow/cmd/cli/client"
	"github.com/crucial707/highlow/cmd/cli/output"
	"github.com/spf13/cobra"
)

// user mirrors the API's serialized user.
type user struct {
	ID            int    `json:"id"`
	UserName      string `json:"user_name"`
	Bank          int    `json:"bank"`
	Administrator bool   `json:"administrator"`
}

// ==========================
// CLI Command Init
// ==========================

// InitUsers registers the users command tree on the root command.
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage player profiles",
	}
	usersCmd.AddCommand(listUsersCmd(), getUserCmd(), updateUserCmd(), deleteUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []user
			if err := client.Do("GET", "/users", nil, &users, false); err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), users)
			}
			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, userRow(u))
			}
			output.RenderTable(cmd.OutOrStdout(), userHeaders, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// ==========================
// Get User
// ==========================
func getUserCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one player's profile (requires login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := fetchUser(id)
			if err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), u)
			}
			output.RenderTable(cmd.OutOrStdout(), userHeaders, [][]interface{}{userRow(*u)})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// ==========================
// Update User
// ==========================

// updateUserCmd sends both keys the API requires. A missing --bank is filled in
// from the current profile so a rename keeps the balance.
func updateUserCmd() *cobra.Command {
	var userName string
	var bank int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a player's name and/or bank (requires login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("user-name") && !cmd.Flags().Changed("bank") {
				return errors.New("nothing to update: pass --user-name and/or --bank")
			}

			if !cmd.Flags().Changed("bank") {
				current, err := fetchUser(id)
				if err != nil {
					return err
				}
				bank = current.Bank
			}

			patch := map[string]interface{}{"user_name": userName, "bank": bank}
			if err := client.Do("PATCH", userPath(id), patch, nil, true); err != nil {
				return fmt.Errorf("failed to update user %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d updated.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "user-name", "", "New user name")
	cmd.Flags().IntVar(&bank, "bank", 0, "New bank balance")
	return cmd
}

// ==========================
// Delete User
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player (requires login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := client.Do("DELETE", userPath(id), nil, nil, true); err != nil {
				return fmt.Errorf("failed to delete user %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted.\n", id)
			return nil
		},
	}
}

// ==========================
// Helpers
// ==========================
var userHeaders = []string{"ID", "User name", "Bank", "Admin"}

func userRow(u user) []interface{} {
	return []interface{}{u.ID, u.UserName, u.Bank, u.Administrator}
}

func fetchUser(id int) (*user, error) {
	var u user
	if err := client.Do("GET", userPath(id), nil, &u, true); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
