package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"video-annotate/pkg/annotate"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored annotations, for one video with --url",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := annotate.NewStore(store).ReadAll(context.Background())
		if err != nil {
			return err
		}
		if resourceURL != "" {
			all = map[string][]annotate.Annotation{resourceURL: all[resourceURL]}
		}
		return renderList(cmd.OutOrStdout(), all, listOutput)
	},
}

func renderList(out io.Writer, all map[string][]annotate.Annotation, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(all)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(all)
	case "text", "":
		urls := make([]string, 0, len(all))
		for url := range all {
			urls = append(urls, url)
		}
		sort.Strings(urls)
		for _, url := range urls {
			printAnnotations(out, url, all[url])
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml)", format)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "Output format: text, json or yaml")
}
