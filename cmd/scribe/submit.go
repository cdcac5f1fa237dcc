package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/mt"
	"github.com/JaimeStill/scribe/internal/tasks"
)

func newSubmitCmd(g *globals) *cobra.Command {
	var (
		threshold   float64
		translate   bool
		provider    string
		model       string
		baseURL     string
		batchSize   int
		maxAttempts int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "submit <document-id>",
		Short: "Queue a document for processing",
		Long: `Queue an uploaded document, or one whose last run failed, for processing
by the worker.

Segments left unresolved by glossaries and translation memories are sent to
machine translation only when --translate or --provider is given. Provider
flags override the [translation] configuration for this document; the API
key always comes from the worker's configuration.

Examples:
  scribe submit 3f0c... --threshold 0.8

  scribe submit 3f0c... --translate

  scribe submit 3f0c... --provider agent --model llama3.1:8b --batch-size 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("document", args[0])
			if err != nil {
				return err
			}

			s, err := open(g, "submit")
			if err != nil {
				return err
			}
			defer s.close()

			settings := tasks.Settings{SimilarityThreshold: s.cfg.Worker.SimilarityThreshold}
			if cmd.Flags().Changed("threshold") {
				settings.SimilarityThreshold = threshold
			}

			if translate || provider != "" {
				overlay := &mt.Config{
					Provider:    provider,
					Model:       model,
					BaseURL:     baseURL,
					BatchSize:   batchSize,
					MaxAttempts: maxAttempts,
					Concurrency: concurrency,
				}
				if _, err := s.cfg.Translation.Resolve(overlay); err != nil {
					return err
				}
				settings.Translation = overlay
			}

			task, err := s.domain.Documents.Submit(context.Background(), id, settings)
			if err != nil {
				return fmt.Errorf("submit %s: %w", id, err)
			}

			fmt.Println(task.ID)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 1, "Similarity threshold for memory matches, 0 to 1 (default: worker configuration)")
	cmd.Flags().BoolVar(&translate, "translate", false, "Machine-translate unresolved segments with the configured provider")
	cmd.Flags().StringVar(&provider, "provider", "", "Machine translation provider: google or agent")
	cmd.Flags().StringVar(&model, "model", "", "Provider model")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Agent provider base URL")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Lines per provider request")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Attempts per batch before giving up")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Batches translated in parallel")

	return cmd
}
