package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/glossaries"
)

func newGlossaryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage glossary terms",
		Long: `Glossary terms are matched exactly against segment sources and always
win over translation memories. Terms found inside a source are passed to
machine translation as terminology hints.`,
	}

	cmd.AddCommand(newGlossaryAddCmd(g))
	return cmd
}

func newGlossaryAddCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "add <glossary-id> <source> <target>",
		Short: "Add a term to a glossary",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("glossary", args[0])
			if err != nil {
				return err
			}

			s, err := open(g, "glossary")
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.domain.Glossaries.Create(context.Background(), glossaries.CreateCommand{
				GlossaryID: id,
				Source:     args[1],
				Target:     args[2],
			})
			if err != nil {
				return fmt.Errorf("add glossary term: %w", err)
			}

			fmt.Println(rec.ID)
			return nil
		},
	}
}
