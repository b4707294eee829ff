package main

import (
	"fmt"
	"strings"

	"video-annotate/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	logsLevel string
	logsLimit int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent entries of the client log, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := logger.ReadLogs(cfg.Client.LogFilePath, strings.ToUpper(logsLevel), logsLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range entries {
			c := timeColor
			switch e.Level {
			case "ERROR":
				c = errorColor
			case "WARN":
				c = warnColor
			}
			c.Fprintf(out, "%s %-5s", e.Timestamp, e.Level)
			fmt.Fprintf(out, " [%s] %s", e.Module, e.Message)
			if len(e.Details) > 0 {
				fmt.Fprintf(out, " %v", e.Details)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Only show this level (info, warn, error)")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Maximum number of entries")
}
