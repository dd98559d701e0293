package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftlab/refdag/pkg/cache"
	"github.com/driftlab/refdag/pkg/errors"
	"github.com/driftlab/refdag/pkg/graphio"
	"github.com/driftlab/refdag/pkg/render/dot"
)

// Output formats accepted by render.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// defaultRenderTTL bounds how long rendered artifacts stay in the file cache.
const defaultRenderTTL = 7 * 24 * time.Hour

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "render [manifest|document]",
		Short: "Render a graph as DOT, SVG, or PNG",
		Long: `Render builds the graph from a TOML manifest (or a previously exported
JSON analysis document), converts it to Graphviz DOT, and rasterizes it.
Cyclic graphs render with the cycle highlighted in red.

Rendered SVG and PNG artifacts are cached by content hash; pass
--no-cache to force a fresh render.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveManifestArg(args)
			if err != nil {
				return err
			}
			doc, err := loadDocument(c, path)
			if err != nil {
				return reportAnalysisError(err)
			}
			if !doc.Acyclic {
				printWarning("Graph has a cycle; rendering with the cycle highlighted")
			}

			if output == "" {
				output = nameFromPath(path) + "." + format
			}
			return c.renderDocument(cmd.Context(), doc, output, format, detailed, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <manifest>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, or png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node metadata in labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")
	return cmd
}

// loadDocument analyzes either a TOML manifest or a JSON analysis document,
// chosen by file extension.
func loadDocument(c *CLI, path string) (*graphio.Document, error) {
	if filepath.Ext(path) == ".json" {
		doc, err := graphio.ImportJSON(path)
		if err != nil {
			return nil, err
		}
		g, err := doc.Graph()
		if err != nil {
			return nil, err
		}
		// Re-analyze so derived fields reflect the declared structure.
		return graphio.Analyze(doc.Name, g)
	}
	return analyzeManifest(c.Logger, path)
}

// renderDocument converts doc to the requested format and writes it out.
func (c *CLI) renderDocument(ctx context.Context, doc *graphio.Document, output, format string, detailed, noCache bool) error {
	src := dot.ToDOT(doc, dot.Options{Detailed: detailed})
	if format == formatDOT {
		if err := os.WriteFile(output, []byte(src), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Wrote DOT")
		printFile(output)
		return nil
	}
	if format != formatSVG && format != formatPNG {
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want %s)",
			format, strings.Join([]string{formatDOT, formatSVG, formatPNG}, ", "))
	}

	artifactCache, err := newCache(noCache)
	if err != nil {
		return err
	}
	defer artifactCache.Close()

	key := cache.RenderKey(src, format)
	data, hit, err := artifactCache.Get(ctx, key)
	if err != nil || !hit {
		sp := newSpinnerWithContext(ctx, "Rendering "+format+"...")
		sp.Start()
		data, err = renderFormat(ctx, src, format)
		if err != nil {
			sp.StopWithError("Render failed")
			return err
		}
		sp.Stop()
		if err := artifactCache.Set(ctx, key, data, defaultRenderTTL); err != nil {
			c.Logger.Warn("cache render", "err", err)
		}
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %s", format)
	printStats(len(doc.Nodes), len(doc.Edges), hit)
	printFile(output)
	return nil
}

func renderFormat(ctx context.Context, src, format string) ([]byte, error) {
	if format == formatPNG {
		return dot.RenderPNG(ctx, src)
	}
	return dot.RenderSVG(ctx, src)
}
