package main

import (
	"fmt"
	"os"

	"video-annotate/internal/config"
	"video-annotate/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	userName     string
	resourceURL  string
	storeBackend string
	storePath    string
	serverURL    string
	pushURL      string

	cfg    *config.Config
	appLog logger.ILogger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Timestamped video annotations, kept locally and shared between users",
	Long: `annotate stores notes pinned to a playback position of a video,
merges annotations other users shared with you, and sends yours to them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		applyDefaults(cfg)

		if verbose {
			appLog = logger.NewZapLogger(cfg.Client.LogFilePath, false)
		} else {
			appLog = logger.NewIsolatedLogger(cfg.Client.LogFilePath)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			_ = appLog.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyDefaults fills flags left empty from the environment configuration.
func applyDefaults(cfg *config.Config) {
	fill := func(v *string, fallback string) {
		if *v == "" {
			*v = fallback
		}
	}
	fill(&userName, cfg.Client.UserName)
	fill(&storeBackend, cfg.Client.StoreBackend)
	fill(&storePath, cfg.Client.StorePath)
	fill(&serverURL, cfg.Client.ServerURL)
	fill(&pushURL, cfg.Client.PushURL)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to the console")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "User name (default $ANNOTATE_USER)")
	rootCmd.PersistentFlags().StringVar(&resourceURL, "url", "", "Video URL the command applies to")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Local store backend: file, bolt, redis or memory (default $ANNOTATE_STORE)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "Local store directory (default $ANNOTATE_STORE_PATH)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Annotation service base URL (default $ANNOTATE_SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&pushURL, "push", "", "Push channel URL (default $ANNOTATE_PUSH_URL)")
}
