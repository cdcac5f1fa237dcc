package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/pkg/formatting"
)

func newImportCmd(g *globals) *cobra.Command {
	var (
		format     string
		sourceLang string
		targetLang string
		name       string
		mems       []string
		glossaries []string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Upload a document",
		Long: `Upload an XLIFF or plain-text document and link it to translation memories
and glossaries. The document is stored with status "uploaded"; run
"scribe submit" to queue it for processing.

Examples:
  scribe import guide.xlf --source-lang en --target-lang de

  scribe import notes.txt --source-lang en --target-lang ja \
    --memory 0b6f...:write --memory 5c1e... --glossary 9a20...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			kind, err := kindFor(format, path)
			if err != nil {
				return err
			}
			src, err := languageTag(sourceLang)
			if err != nil {
				return err
			}
			tgt, err := languageTag(targetLang)
			if err != nil {
				return err
			}
			links, err := parseMemoryLinks(mems)
			if err != nil {
				return err
			}
			glossaryIDs, err := parseIDs("glossary", glossaries)
			if err != nil {
				return err
			}

			s, err := open(g, "import")
			if err != nil {
				return err
			}
			defer s.close()

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if limit := s.cfg.Documents.MaxUploadSizeBytes(); info.Size() > limit {
				return fmt.Errorf(
					"%w: %s is %s, limit is %s",
					documents.ErrInvalidFile,
					path,
					formatting.FormatBytes(info.Size(), 1),
					formatting.FormatBytes(limit, 1),
				)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if name == "" {
				name = filepath.Base(path)
			}

			doc, err := s.domain.Documents.Create(context.Background(), documents.CreateCommand{
				Name:       name,
				Format:     kind,
				SourceLang: src,
				TargetLang: tgt,
				Data:       data,
				Memories:   links,
				Glossaries: glossaryIDs,
			})
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			fmt.Println(doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: xliff or txt (default: from extension)")
	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Source language tag (required)")
	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Target language tag (required)")
	cmd.Flags().StringVar(&name, "name", "", "Document name (default: file name)")
	cmd.Flags().StringArrayVar(&mems, "memory", nil, "Linked memory as <id>[:read|write] (repeatable)")
	cmd.Flags().StringArrayVar(&glossaries, "glossary", nil, "Linked glossary id (repeatable)")
	_ = cmd.MarkFlagRequired("source-lang")
	_ = cmd.MarkFlagRequired("target-lang")

	return cmd
}
