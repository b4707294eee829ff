package main

import (
	"context"
	"strings"

	"video-annotate/pkg/annotate"

	"github.com/spf13/cobra"
)

var saveAt float64

var saveCmd = &cobra.Command{
	Use:   "save <content>",
	Short: "Store an annotation for a video at a playback position",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireURL(); err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		local := annotate.NewStore(store)
		content := strings.Join(args, " ")
		if err := annotate.NewMerger(local).MergeLocal(ctx, resourceURL, content, saveAt); err != nil {
			return err
		}
		appLog.Info("CLI", "Annotation saved", map[string]interface{}{"url": resourceURL, "time": saveAt})

		entry, err := local.ReadResource(ctx, resourceURL)
		if err != nil {
			return err
		}
		printAnnotations(cmd.OutOrStdout(), resourceURL, entry)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().Float64Var(&saveAt, "at", 0, "Playback position in seconds")
}
