package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globals) *cobra.Command {
	var (
		output  string
		paging  pageOptions
		current bool
	)

	cmd := &cobra.Command{
		Use:   "history <segment-id>",
		Short: "Show the change history of a segment",
		Long: `List the history entries of a segment, newest first. Each entry holds the
encoded diff from the previous target, its author and its change type.
With --current the full chain is replayed and the resulting target printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			id, err := parseID("segment", args[0])
			if err != nil {
				return err
			}

			s, err := open(g, "history")
			if err != nil {
				return err
			}
			defer s.close()

			ctx := context.Background()

			if current {
				target, err := s.domain.History.Reconstruct(ctx, id)
				if err != nil {
					return err
				}
				fmt.Println(target)
				return nil
			}

			result, err := s.domain.History.List(ctx, id, paging.request())
			if err != nil {
				return err
			}

			if output == outputYAML {
				return writeYAML(os.Stdout, result.Data)
			}

			rows := make([][]string, 0, len(result.Data))
			for _, e := range result.Data {
				author := "system"
				if e.AuthorID != nil {
					author = e.AuthorID.String()
				}
				rows = append(rows, []string{
					stamp(e.Timestamp),
					string(e.ChangeType),
					author,
					clip(e.Diff, 60),
				})
			}
			if err := writeTable(os.Stdout, []string{"TIME", "CHANGE", "AUTHOR", "DIFF"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\n%s\n", result.Summary())
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	addPageFlags(cmd, &paging, false)
	cmd.Flags().BoolVar(&current, "current", false, "Print the target reconstructed from the full history")

	return cmd
}
