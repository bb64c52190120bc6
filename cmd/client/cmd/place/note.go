package place

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spot/internal/domain/place"
)

var NoteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Set the note of a saved place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		err = app.EditNote(cmd.Context(), args[0], args[1])
		if errors.Is(err, place.ErrNotFound) {
			return fmt.Errorf("no saved place with id %s", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Println("Note updated.")
		return nil
	},
}
