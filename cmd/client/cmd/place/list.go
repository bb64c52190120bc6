package place

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved places",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		places, err := app.ListPlaces(cmd.Context())
		if err != nil {
			return err
		}

		if len(places) == 0 {
			fmt.Println("No saved places yet.")
			return nil
		}

		name := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)
		visited := color.New(color.FgGreen)

		for _, p := range places {
			name.Println(displayName(p))
			dim.Printf("  id: %s\n", p.ID)
			if p.Cache != nil && p.Cache.Address != "" {
				fmt.Printf("  %s\n", p.Cache.Address)
			}
			if p.Cache != nil && p.Cache.Rating > 0 {
				fmt.Printf("  rating %.1f\n", p.Cache.Rating)
			}
			if p.NoteText != "" {
				fmt.Printf("  note: %s\n", p.NoteText)
			}
			if p.DateVisited != nil {
				visited.Printf("  visited %s\n", p.DateVisited.Format("2006-01-02"))
			}
			fmt.Println()
		}

		fmt.Printf("%d place(s)\n", len(places))
		return nil
	},
}
