package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/segments"
)

func newSegmentCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "List and edit segments",
	}

	cmd.AddCommand(
		newSegmentListCmd(g),
		newSegmentEditCmd(g),
	)

	return cmd
}

func newSegmentListCmd(g *globals) *cobra.Command {
	var (
		output   string
		paging   pageOptions
		approved string
		source   string
	)

	cmd := &cobra.Command{
		Use:   "list <document-id>",
		Short: "List the segments of a document in document order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			docID, err := parseID("document", args[0])
			if err != nil {
				return err
			}

			var filters segments.Filters
			if approved != "" {
				b, err := strconv.ParseBool(approved)
				if err != nil {
					return fmt.Errorf("%w: approved %q: %w", errUsage, approved, err)
				}
				filters.Approved = &b
			}
			if source != "" {
				filters.Source = &source
			}

			s, err := open(g, "segment")
			if err != nil {
				return err
			}
			defer s.close()

			result, err := s.domain.Segments.List(
				context.Background(),
				docID,
				paging.request(),
				filters,
			)
			if err != nil {
				return err
			}

			if output == outputYAML {
				return writeYAML(os.Stdout, result.Data)
			}

			rows := make([][]string, 0, len(result.Data))
			for _, seg := range result.Data {
				rows = append(rows, []string{
					strconv.Itoa(seg.Position),
					seg.ID.String(),
					strconv.FormatBool(seg.Approved),
					strconv.Itoa(seg.WordCount),
					clip(seg.Source, 40),
					clip(seg.Target, 40),
				})
			}
			if err := writeTable(os.Stdout, []string{"#", "ID", "APPROVED", "WORDS", "SOURCE", "TARGET"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\n%s\n", result.Summary())
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	addPageFlags(cmd, &paging, true)
	cmd.Flags().StringVar(&approved, "approved", "", "Only approved (true) or unapproved (false) segments")
	cmd.Flags().StringVar(&source, "source", "", "Only segments whose source contains this text")

	return cmd
}

func newSegmentEditCmd(g *globals) *cobra.Command {
	var (
		target    string
		approve   bool
		author    string
		propagate bool
	)

	cmd := &cobra.Command{
		Use:   "edit <segment-id>",
		Short: "Change the target or approval of a segment",
		Long: `Edit a segment and record the change in its history.

Consecutive edits by the same author are merged into one history entry.
Approving a segment writes its source and target to the document's
write-mode memories. With --propagate the edit is copied to every
unapproved segment of the document with the same source.

Examples:
  scribe segment edit 71d2... --target "Guten Tag" --author 1c9b...

  scribe segment edit 71d2... --approve --author 1c9b... --propagate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("segment", args[0])
			if err != nil {
				return err
			}

			var authorID *uuid.UUID
			if author != "" {
				a, err := parseID("author", author)
				if err != nil {
					return err
				}
				authorID = &a
			}

			s, err := open(g, "segment")
			if err != nil {
				return err
			}
			defer s.close()

			ctx := context.Background()

			current, err := s.domain.Segments.Find(ctx, id)
			if err != nil {
				return err
			}

			update := segments.UpdateCommand{
				SegmentID: id,
				Target:    current.Target,
				Approved:  current.Approved,
				AuthorID:  authorID,
				Propagate: propagate,
			}
			if cmd.Flags().Changed("target") {
				update.Target = target
			}
			if cmd.Flags().Changed("approve") {
				update.Approved = approve
			}

			seg, err := s.domain.Segments.Update(ctx, update)
			if err != nil {
				return fmt.Errorf("edit %s: %w", id, err)
			}

			return writeYAML(os.Stdout, seg)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "New target text")
	cmd.Flags().BoolVar(&approve, "approve", false, "Set approval (use --approve=false to revoke)")
	cmd.Flags().StringVar(&author, "author", "", "Author id recorded in history")
	cmd.Flags().BoolVar(&propagate, "propagate", false, "Apply to unapproved segments with the same source")
	cmd.MarkFlagsOneRequired("target", "approve")

	return cmd
}
