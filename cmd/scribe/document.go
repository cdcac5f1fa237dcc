package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/internal/formats"
)

func newDocumentCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"documents", "doc"},
		Short:   "List and delete documents",
	}

	cmd.AddCommand(
		newDocumentListCmd(g),
		newDocumentShowCmd(g),
		newDocumentDeleteCmd(g),
	)

	return cmd
}

func newDocumentListCmd(g *globals) *cobra.Command {
	var (
		output     string
		paging     pageOptions
		status     string
		format     string
		name       string
		targetLang string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}

			var filters documents.Filters
			if status != "" {
				st, err := documents.ParseStatus(status)
				if err != nil {
					return err
				}
				filters.Status = &st
			}
			if format != "" {
				k, err := formats.ParseKind(format)
				if err != nil {
					return err
				}
				filters.Format = &k
			}
			if name != "" {
				filters.Name = &name
			}
			if targetLang != "" {
				tag, err := languageTag(targetLang)
				if err != nil {
					return err
				}
				filters.TargetLang = &tag
			}

			s, err := open(g, "document")
			if err != nil {
				return err
			}
			defer s.close()

			result, err := s.domain.Documents.List(
				context.Background(),
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
			for _, d := range result.Data {
				rows = append(rows, []string{
					d.ID.String(),
					clip(d.Name, 32),
					string(d.Format),
					d.SourceLang + "→" + d.TargetLang,
					string(d.Status),
					stamp(d.UpdatedAt),
				})
			}
			if err := writeTable(os.Stdout, []string{"ID", "NAME", "FORMAT", "LANGS", "STATUS", "UPDATED"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\n%s\n", result.Summary())
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	addPageFlags(cmd, &paging, true)
	cmd.Flags().StringVar(&status, "status", "", "Only documents with this status")
	cmd.Flags().StringVar(&format, "format", "", "Only documents of this format")
	cmd.Flags().StringVar(&name, "name", "", "Only documents whose name contains this text")
	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Only documents with this target language")

	return cmd
}

func newDocumentShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show a document and its links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("document", args[0])
			if err != nil {
				return err
			}

			s, err := open(g, "document")
			if err != nil {
				return err
			}
			defer s.close()

			ctx := context.Background()

			doc, err := s.domain.Documents.Find(ctx, id)
			if err != nil {
				return err
			}
			links, err := s.domain.Documents.Links(ctx, id)
			if err != nil {
				return err
			}

			return writeYAML(os.Stdout, struct {
				Document *documents.Document `yaml:"document"`
				Links    *documents.Links    `yaml:"links"`
			}{doc, links})
		},
	}
}

func newDocumentDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document with its segments, history and blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("document", args[0])
			if err != nil {
				return err
			}

			s, err := open(g, "document")
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.domain.Documents.Delete(context.Background(), id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			return nil
		},
	}
}
