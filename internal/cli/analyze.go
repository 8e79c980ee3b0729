package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/pipeline"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// defaultTableRows is the number of nodes shown in the usage table.
const defaultTableRows = 10

type analyzeOpts struct {
	outDir  string
	jsonOut bool
	refresh bool
	rows    int
	bonus   int
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{bonus: -1}

	cmd := &cobra.Command{
		Use:   "analyze [blueprint...]",
		Short: "Estimate throughput and find bottlenecks",
		Long: `Analyze one or more blueprints.

Each file holds a blueprint exchange string or the decoded blueprint JSON;
"-" reads standard input. Files are analysed concurrently. For every file a
summary and the busiest nodes are printed; --output writes the full reports
as <name>.report.json.`,
		Example: `  factoryflow analyze smelter.txt
  factoryflow analyze -o reports/ designs/*.txt
  factoryflow analyze --json - < circuits.txt`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeBlueprintFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output", "o", "", "directory to write report JSON files to")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print report JSON to stdout instead of a summary")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached reports")
	cmd.Flags().IntVar(&opts.rows, "top", defaultTableRows, "number of nodes in the usage table (0 for all)")
	cmd.Flags().IntVar(&opts.bonus, "bonus", -1, "inserter capacity bonus research level (overrides config)")

	return cmd
}

type analysis struct {
	path   string
	result *pipeline.Result
}

func (c *CLI) runAnalyze(ctx context.Context, paths []string, opts analyzeOpts) error {
	logger := loggerFromContext(ctx)
	if opts.jsonOut && len(paths) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--json accepts a single blueprint")
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	results := make([]analysis, len(paths))

	var finished atomic.Int32
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing 0/%d", len(paths)))
	spinner.Start()
	defer spinner.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			bp, err := readBlueprint(path)
			if err != nil {
				return err
			}
			po := c.pipelineOptions(bp)
			po.Refresh = opts.refresh
			if opts.bonus >= 0 {
				po.InserterCapacityBonus = opts.bonus
			}
			res, err := runner.Execute(gctx, po)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = analysis{path: path, result: res}
			spinner.SetMessage("Analyzing %d/%d", finished.Add(1), len(paths))
			return nil
		})
	}
	err = g.Wait()
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d blueprint(s)", len(paths)))

	if opts.jsonOut {
		return report.WriteJSON(results[0].result.Report, os.Stdout)
	}

	for _, a := range results {
		if err := printAnalysis(a, opts); err != nil {
			return err
		}
	}
	if opts.outDir == "" && len(paths) == 1 && paths[0] != "-" {
		printNextStep("Draw the graph", fmt.Sprintf("%s render %s", appName, paths[0]))
	}
	return nil
}

func printAnalysis(a analysis, opts analyzeOpts) error {
	rep := a.result.Report

	printSuccess("%s %s", StyleTitle.Render(rep.Label), StyleDim.Render("("+a.path+")"))
	fmt.Println(summaryLine(rep, a.result.CacheInfo.ReportHit))
	printKeyValue("input", formatItems(rep.ItemsInput))
	printKeyValue("output", formatItems(rep.ItemsOutput))
	if len(rep.Bottlenecks) > 0 {
		printKeyValue("bottlenecks", strings.Join(rep.Bottlenecks, ", "))
	}
	for _, w := range rep.Warnings {
		printWarning("%s", w)
	}
	for _, d := range rep.Diagnostics {
		printWarning("%s", d)
	}
	if len(rep.Nodes) > 0 {
		fmt.Println(usageTable(rep, opts.rows))
	}

	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", opts.outDir)
		}
		path := filepath.Join(opts.outDir, reportName(a.path))
		if err := report.WriteFile(rep, path); err != nil {
			return err
		}
		printFile(path)
	}
	fmt.Println()
	return nil
}

// reportName derives "<base>.report.json" from a blueprint path.
func reportName(path string) string {
	if path == "-" {
		return "stdin.report.json"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".report.json"
}
