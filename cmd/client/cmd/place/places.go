// Package place holds the saved-place commands: save, list, rm, note,
// visited.
package place

import (
	"fmt"

	"github.com/spf13/cobra"

	"spot/cmd/client/cmd/types"
	"spot/internal/app/client"
)

var PlacesCmd = &cobra.Command{
	Use:   "places",
	Short: "Manage saved places",
}

func init() {
	PlacesCmd.AddCommand(SaveCmd)
	PlacesCmd.AddCommand(ListCmd)
	PlacesCmd.AddCommand(RemoveCmd)
	PlacesCmd.AddCommand(NoteCmd)
	PlacesCmd.AddCommand(VisitedCmd)
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}
