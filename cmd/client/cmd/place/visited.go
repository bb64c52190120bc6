package place

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spot/internal/domain/place"
)

var (
	visitedDate  string
	visitedClear bool
)

var VisitedCmd = &cobra.Command{
	Use:   "visited <id>",
	Short: "Mark a saved place as visited",
	Long: `Marks a place as visited today, or on the date given with --date.
Use --clear to remove the visit mark.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var when *time.Time
		if !visitedClear {
			t := time.Now().UTC()
			if visitedDate != "" {
				t, err = time.Parse("2006-01-02", visitedDate)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", visitedDate)
				}
			}
			when = &t
		}

		err = app.SetVisited(cmd.Context(), args[0], when)
		if errors.Is(err, place.ErrNotFound) {
			return fmt.Errorf("no saved place with id %s", args[0])
		}
		if err != nil {
			return err
		}

		if visitedClear {
			fmt.Println("Visit mark removed.")
		} else {
			fmt.Println("Marked as visited.")
		}
		return nil
	},
}

func init() {
	VisitedCmd.Flags().StringVar(&visitedDate, "date", "", "visit date (YYYY-MM-DD)")
	VisitedCmd.Flags().BoolVar(&visitedClear, "clear", false, "remove the visit mark")
}
