// Package auth holds the account commands: register, login, logout.
package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spot/cmd/client/cmd/types"
	"spot/internal/app/client"
)

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Spot account",
}

func init() {
	AuthCmd.AddCommand(RegisterCmd)
	AuthCmd.AddCommand(LoginCmd)
	AuthCmd.AddCommand(LogoutCmd)
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}

func promptCredentials() (string, string, error) {
	fmt.Print("Email: ")
	var email string
	_, _ = fmt.Scanln(&email)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	fmt.Println()

	return email, string(password), nil
}
