// ecl2csv converts simulator input decks and PRT run logs into flat tables.
//
// Usage:
//
//	ecl2csv pvt [-o pvt.csv] [-count N] DECKFILE...
//	ecl2csv satfunc [-o satfunc.csv] [-count N] DECKFILE...
//	ecl2csv fipreports [-o outflow.csv] [-fipname FIPNUM] PRTFILE...
//
// Output defaults to CSV; -format xlsx writes a workbook instead. "-o -"
// streams CSV to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"eclcli/internal/config"
	"eclcli/internal/exporter"
	"eclcli/internal/infrastructure"
	"eclcli/internal/services"
	"eclcli/internal/tabular"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	subcommand := os.Args[1]

	fs := flag.NewFlagSet(subcommand, flag.ExitOnError)
	output := fs.String("o", defaultOutput(subcommand), "output filename, or - for stdout CSV")
	format := fs.String("format", "csv", "output format: csv or xlsx")
	fipname := fs.String("fipname", "FIPNUM", "region parameter name of interest (fipreports)")
	count := fs.Int("count", 0, "region count override; 0 resolves it from the deck")
	ceiling := fs.Int("ceiling", 0, "guess-by-reparse ceiling; 0 uses the default")
	verbose := fs.Bool("v", false, "be verbose")
	fs.Parse(os.Args[2:])

	files := fs.Args()
	if len(files) == 0 {
		usage()
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "info"
	}
	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  level,
		Format: "text",
		Output: "console",
	})
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	service := services.NewExtractionService(logger)
	ctx := infrastructure.EnsureTraceID(context.Background())

	table, extractionErrs, err := run(ctx, service, subcommand, files, options{
		fipname: *fipname,
		count:   *count,
		ceiling: *ceiling,
	})
	if err != nil {
		logger.Error("Extraction failed", "error", err)
		os.Exit(1)
	}
	for _, e := range extractionErrs {
		logger.Warn("Keyword skipped", "error", e)
	}

	if err := write(*output, *format, table); err != nil {
		logger.Error("Failed to write output", "error", err)
		os.Exit(1)
	}
	if *output != "-" {
		fmt.Println("Wrote to " + *output)
	}
}

type options struct {
	fipname string
	count   int
	ceiling int
}

// run extracts every input file concurrently and concatenates the tables in
// argument order.
func run(ctx context.Context, service *services.ExtractionService, subcommand string, files []string, opts options) (*tabular.Table, []error, error) {
	tables := make([]*tabular.Table, len(files))
	softErrs := make([][]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			text, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			switch subcommand {
			case "pvt", "satfunc":
				deckOpts := services.DeckOptions{RegionCount: opts.count, GuessCeiling: opts.ceiling}
				var result *services.DeckResult
				if subcommand == "pvt" {
					result, err = service.ExtractPVT(ctx, string(text), deckOpts)
				} else {
					result, err = service.ExtractSatFunc(ctx, string(text), deckOpts)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				tables[i] = result.Table
				softErrs[i] = result.KeywordErrors
			case "fipreports":
				result, err := service.ExtractFIPReports(ctx, strings.NewReader(string(text)), opts.fipname)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				tables[i] = result.Table
				for _, dropped := range result.Diagnostics.Dropped {
					softErrs[i] = append(softErrs[i], dropped)
				}
			default:
				return fmt.Errorf("unknown subcommand %q", subcommand)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var flat []error
	for _, errs := range softErrs {
		flat = append(flat, errs...)
	}
	return tabular.Concat(tables...), flat, nil
}

func write(output, format string, table *tabular.Table) error {
	if output == "-" {
		return exporter.NewCSVWriter().Write(os.Stdout, table)
	}
	if format == "xlsx" {
		return exporter.NewXLSXWriter().WriteTable(output, table)
	}
	return exporter.NewCSVWriter().WriteTable(output, table)
}

func defaultOutput(subcommand string) string {
	switch subcommand {
	case "pvt":
		return "pvt.csv"
	case "satfunc":
		return "satfuncs.csv"
	case "fipreports":
		return "outflow.csv"
	}
	return "out.csv"
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ecl2csv <pvt|satfunc|fipreports> [flags] FILE...")
	fmt.Fprintln(os.Stderr, "run 'ecl2csv <subcommand> -h' for flags")
}
