package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/memories"
)

func newMemoryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage translation memories",
	}

	cmd.AddCommand(newMemoryAddCmd(g))
	return cmd
}

func newMemoryAddCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "add <memory-id> <source> <target>",
		Short: "Store a source/target pair in a memory",
		Long: `Store a pair in a translation memory. An existing pair with the same
source is replaced.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("memory", args[0])
			if err != nil {
				return err
			}

			s, err := open(g, "memory")
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.domain.Memories.Upsert(context.Background(), memories.UpsertCommand{
				MemoryID:  id,
				Source:    args[1],
				Target:    args[2],
				ChangedAt: time.Now(),
			})
			if err != nil {
				return fmt.Errorf("add memory pair: %w", err)
			}

			fmt.Println(rec.ID)
			return nil
		},
	}
}
