package main

import (
	"context"
	"fmt"
	"io"

	"video-annotate/pkg/annotate"
	"video-annotate/pkg/player"

	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch annotations shared with you and merge them locally",
	Long: `Fetch every annotation other users shared with --user, merge them into
the local store and acknowledge them on the service.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userName == "" {
			return annotate.ErrSignedOut
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		clock := player.NewClock(resourceURL, 0)
		session := annotate.NewSession(annotate.NewStore(store), newRemote(), nil, clock, nil, appLog, cfg.Client.SyncTimeout)
		defer session.Close()

		syncErr := session.SignIn(context.Background(), userName)
		printReport(cmd.OutOrStdout(), session.LastReport())
		if syncErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Tip: check that the annotation service is reachable at", serverURL)
			return syncErr
		}
		return nil
	},
}

func printReport(out io.Writer, r annotate.SyncReport) {
	okColor.Fprintf(out, "Fetched %d, merged %d, skipped %d duplicate(s), acknowledged %d\n",
		r.Fetched, r.Appended, r.Skipped, r.Acknowledged)
	if r.MergeFailed > 0 || r.AckFailed > 0 {
		errorColor.Fprintf(out, "%d merge failure(s), %d acknowledgment failure(s)\n", r.MergeFailed, r.AckFailed)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
