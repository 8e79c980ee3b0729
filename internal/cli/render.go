package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/pipeline"
)

type renderOpts struct {
	output   string
	formats  string
	detailed bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [blueprint]",
		Short: "Draw the production graph",
		Long: `Render the compacted production graph of a blueprint.

Nodes are labelled with their entity; bottlenecks are filled black. With
--detailed, labels also show the recipe, the flow of every item and the
usage of the node. Supported formats are svg (default), dot and json.`,
		Example: `  factoryflow render smelter.txt
  factoryflow render -f svg,dot --detailed -o out/smelter smelter.txt`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBlueprintFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show recipes, flow and usage in labels")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, formats []string, opts renderOpts) error {
	bp, err := readBlueprint(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	po := c.pipelineOptions(bp)
	po.Formats = formats
	po.Detailed = opts.detailed
	po.Refresh = opts.refresh

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	res, err := runner.Execute(ctx, po)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", StyleTitle.Render(res.Report.Label)))
	fmt.Println(summaryLine(res.Report, res.CacheInfo.ReportHit))

	base := basePath(opts.output, input)
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && opts.output != "" && filepath.Ext(opts.output) != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the output path without extension. An empty output
// reuses the input path; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "stdin"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(errors.SupportedFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
