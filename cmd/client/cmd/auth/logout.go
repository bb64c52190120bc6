package auth

import (
	"fmt"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if err := app.Logout(); err != nil {
			return err
		}

		fmt.Println("Logged out.")
		return nil
	},
}
