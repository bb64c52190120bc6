package place

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spot/internal/domain/place"
)

var RemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved place",
	Long: `Deletes the save locally right away. The server copy is removed on
the same run when reachable, otherwise on the next sync.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		err = app.DeletePlace(cmd.Context(), args[0])
		if errors.Is(err, place.ErrNotFound) {
			return fmt.Errorf("no saved place with id %s", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Println("Deleted.")
		return nil
	},
}
