package main

import (
	"context"
	"errors"
	"fmt"

	"video-annotate/pkg/annotate"

	"github.com/spf13/cobra"
)

var shareTo string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Send every annotation of a video to another user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireURL(); err != nil {
			return err
		}
		if shareTo == "" {
			return errors.New("--to is required")
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sharer := annotate.NewSharer(annotate.NewStore(store), newRemote(), appLog)
		sent, err := sharer.ShareResource(context.Background(), resourceURL, shareTo)
		if sent > 0 {
			okColor.Fprintf(cmd.OutOrStdout(), "Shared %d annotation(s) of %s with %s\n", sent, resourceURL, shareTo)
		}
		if err != nil {
			return fmt.Errorf("some annotations were not shared: %w", err)
		}
		if sent == 0 {
			warnColor.Fprintf(cmd.OutOrStdout(), "No annotations stored for %s\n", resourceURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().StringVar(&shareTo, "to", "", "User to share with")
}
