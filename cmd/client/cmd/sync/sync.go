// Package sync holds the explicit sync command.
package sync

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spot/cmd/client/cmd/types"
	"spot/internal/app/client"
)

var (
	pullOnly bool
	pushOnly bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync saved places with the server",
	Long: `Pulls the server snapshot into the local store, then uploads local
saves the server does not have and replays queued offline changes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application not initialized")
		}

		if pullOnly && pushOnly {
			return fmt.Errorf("--pull-only and --push-only are mutually exclusive")
		}
		if !app.IsAuthenticated() {
			return fmt.Errorf("authentication required, run: spot auth login")
		}

		start := time.Now()

		var (
			pull *client.PullResult
			push *client.PushResult
			err  error
		)
		switch {
		case pullOnly:
			pull, err = app.Pull(cmd.Context())
		case pushOnly:
			push, err = app.Push(cmd.Context())
		default:
			pull, push, err = app.Sync(cmd.Context())
		}

		if errors.Is(err, client.ErrOffline) {
			return fmt.Errorf("server unreachable, try again later")
		}
		if err != nil {
			return err
		}

		if pull != nil {
			fmt.Printf("Pulled: %d new, %d updated, %d metadata writes\n",
				pull.Inserted, pull.Updated, pull.CacheWrites)
		}
		if push != nil {
			fmt.Printf("Pushed: %d uploaded, %d queued changes replayed\n",
				push.Uploaded, push.OpsReplayed)
			for _, e := range push.Errors {
				fmt.Printf("  failed %s %s: %v\n", e.Operation, e.SavedID, e.Err)
			}
		}

		fmt.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	SyncCmd.Flags().BoolVar(&pullOnly, "pull-only", false, "only pull the server snapshot")
	SyncCmd.Flags().BoolVar(&pushOnly, "push-only", false, "only push local changes")
}
