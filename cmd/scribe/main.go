// Command scribe runs the document translation pipeline: it imports
// documents, queues them for processing, runs the task worker and edits
// the resulting segments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/config"
)

var version = "dev"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "scribe",
		Short: "Computer-assisted translation pipeline",
		Long: `scribe splits XLIFF and plain-text documents into segments, fills their
targets from glossaries, translation memories and machine translation, and
keeps a diff history of every change.

Commands:
  import    Upload a document and link its memories and glossaries
  submit    Queue a document for processing
  worker    Run the task worker
  segment   List and edit segments
  history   Show the change history of a segment
  glossary  Add glossary terms
  memory    Add translation-memory pairs
  document  List and delete documents
  migrate   Apply or revert the database schema`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configFile, "config", config.BaseConfigFile, "Base configuration file")

	root.AddCommand(
		newImportCmd(g),
		newSubmitCmd(g),
		newWorkerCmd(g),
		newSegmentCmd(g),
		newHistoryCmd(g),
		newGlossaryCmd(g),
		newMemoryCmd(g),
		newDocumentCmd(g),
		newMigrateCmd(g),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
