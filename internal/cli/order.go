package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftlab/refdag/pkg/errors"
	"github.com/driftlab/refdag/pkg/graphio"
)

// orderCommand creates the order command for topological ordering.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "order [manifest]",
		Short: "Print the topological order of a manifest's graph",
		Long: `Order loads a TOML graph manifest and prints its nodes in topological
order, one per line: every node appears before anything it points at.
A cyclic graph has no such order and fails with the cycle printed.

With --json the full analysis document is emitted instead, suitable for
re-import or for POSTing to a running server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveManifestArg(args)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			doc, err := analyzeManifest(c.Logger, path)
			if err != nil {
				return reportAnalysisError(err)
			}
			if !doc.Acyclic {
				printError("No topological order: %s has a cycle", path)
				printWalk(doc.Cycle)
				return errors.New(errors.ErrCodeInvalidInput, "graph contains a cycle")
			}
			prog.done(fmt.Sprintf("Ordered %d nodes", len(doc.Order)))

			if asJSON {
				return writeDocument(doc, output)
			}
			for _, id := range doc.Order {
				fmt.Println(id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full analysis document as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to a file instead of stdout")
	return cmd
}

// writeDocument writes doc as JSON to the given path, or stdout when empty.
func writeDocument(doc *graphio.Document, path string) error {
	if path == "" {
		return graphio.WriteJSON(doc, os.Stdout)
	}
	if err := graphio.ExportJSON(doc, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}
