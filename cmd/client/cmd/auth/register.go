package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Spot account",
	Long: `Registers a new account on the Spot server and logs in. The session
token is stored locally for later commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}

		fmt.Print("Repeat password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		if password != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}

		if err := app.Register(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println("Account created, you are logged in.")
		return nil
	},
}
