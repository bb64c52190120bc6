package auth

import (
	"fmt"

	"github.com/spf13/cobra"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Spot server",
	Long: `Authenticates against the Spot server. The session token is stored
locally for later commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}

		if err := app.Login(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Logged in as %s.\n", email)
		return nil
	},
}
