package cli

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/driftlab/refdag/pkg/digraph"
	"github.com/driftlab/refdag/pkg/errors"
	"github.com/driftlab/refdag/pkg/graphio"
	"github.com/driftlab/refdag/pkg/manifest"
)

// checkCommand creates the check command for cycle and reference analysis.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [manifest]",
		Short: "Detect cycles and dangling references in a graph manifest",
		Long: `Check loads a TOML graph manifest, resolves all edge references, and
reports either a topological order (the graph is sound) or the offending
cycle / dangling references.

When no manifest is given, check looks for *.toml files in the current
directory and prompts if there is more than one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveManifestArg(args)
			if err != nil {
				return err
			}

			doc, err := analyzeManifest(c.Logger, path)
			if err != nil {
				return reportAnalysisError(err)
			}

			if !doc.Acyclic {
				printError("Cycle detected in %s", path)
				printWalk(doc.Cycle)
				return errors.New(errors.ErrCodeInvalidInput, "graph contains a cycle")
			}

			printSuccess("%s is acyclic", path)
			printStats(len(doc.Nodes), len(doc.Edges), false)
			printNextStep("Render it", fmt.Sprintf("%s render %s", appName, path))
			return nil
		},
	}
}

// analyzeManifest loads, builds, and analyzes a manifest file.
func analyzeManifest(logger *log.Logger, path string) (*graphio.Document, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest loaded", "path", path, "nodes", len(m.Nodes), "edges", len(m.Edges))

	g, err := m.Build()
	if err != nil {
		return nil, err
	}
	return graphio.Analyze(m.Name(nameFromPath(path)), g)
}

// reportAnalysisError prints dangling references nicely before returning
// the error for the non-zero exit.
func reportAnalysisError(err error) error {
	var unresolved *digraph.UnresolvedError[string]
	if stderrors.As(err, &unresolved) {
		printError("Unresolved references:")
		for _, ref := range unresolved.Refs {
			printDetail("%s", ref)
		}
		return errors.New(errors.ErrCodeUnresolvedRefs, "%d unresolved references", len(unresolved.Refs))
	}
	return err
}

// nameFromPath derives a graph name from a manifest filename.
func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
