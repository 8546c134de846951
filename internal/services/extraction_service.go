// Package services wires the core extraction packages together behind the
// operations the CLI and HTTP transport expose.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"eclcli/internal/deck"
	"eclcli/internal/fipreports"
	"eclcli/internal/inferdims"
	"eclcli/internal/kwtables"
	"eclcli/internal/tabular"
)

// ExtractionService runs deck and report extractions. It is stateless across
// calls; nothing survives one extraction.
type ExtractionService struct {
	logger *slog.Logger
}

// NewExtractionService creates the service with the given logger.
func NewExtractionService(logger *slog.Logger) *ExtractionService {
	return &ExtractionService{logger: logger.With(slog.String("component", "extraction_service"))}
}

// DeckOptions tunes a keyword-table extraction.
type DeckOptions struct {
	// RegionCount overrides dimension resolution when the caller already
	// knows the table count. Zero means resolve from the deck.
	RegionCount int
	// GuessCeiling bounds guess-by-reparse; zero uses the default.
	GuessCeiling int
}

// DeckResult is a keyword-table extraction outcome: the (possibly empty)
// table, the resolved count, and per-keyword errors for keywords that failed
// without aborting their siblings.
type DeckResult struct {
	Table         *tabular.Table
	Count         inferdims.Count
	KeywordErrors []error
}

// ExtractPVT extracts the PVT keyword tables from deck text, resolving the
// NTPVT region count from TABDIMS or by inference when TABDIMS is absent.
func (s *ExtractionService) ExtractPVT(ctx context.Context, deckText string, opts DeckOptions) (*DeckResult, error) {
	return s.extractTables(ctx, deckText, kwtables.PVTSchemas, "PVTNUM", inferdims.Directive{Keyword: "TABDIMS", Item: deck.NTPVTItem}, opts)
}

// ExtractSatFunc extracts the saturation-function keyword tables, resolving
// the NTSFUN count.
func (s *ExtractionService) ExtractSatFunc(ctx context.Context, deckText string, opts DeckOptions) (*DeckResult, error) {
	return s.extractTables(ctx, deckText, kwtables.SatSchemas, "SATNUM", inferdims.Directive{Keyword: "TABDIMS", Item: deck.NTSFUNItem}, opts)
}

func (s *ExtractionService) extractTables(ctx context.Context, deckText string, schemas map[string]kwtables.Schema, indexColumn string, directive inferdims.Directive, opts DeckOptions) (*DeckResult, error) {
	var count inferdims.Count
	if opts.RegionCount > 0 {
		count = inferdims.Count{N: opts.RegionCount, Provenance: inferdims.Declared}
	} else {
		resolved, err := inferdims.Resolve(deckText, directive, opts.GuessCeiling)
		if err != nil {
			return nil, err
		}
		count = resolved
	}

	// Injection is a no-op when the sizing keyword is already present, and
	// always operates on a private copy of the text.
	text := inferdims.Inject(deckText, directive.Keyword, directive.Item, count.N)
	parsed, err := deck.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}

	table, kwErrs := kwtables.Extract(parsed, schemas, indexColumn, kwtables.Options{RegionCount: count.N})
	s.logger.InfoContext(ctx, "deck tables extracted",
		slog.String("index_column", indexColumn),
		slog.Int("region_count", count.N),
		slog.String("count_provenance", count.Provenance.String()),
		slog.Int("rows", table.Len()),
		slog.Int("keyword_errors", len(kwErrs)))

	return &DeckResult{Table: table, Count: count, KeywordErrors: kwErrs}, nil
}

// ReportResult is a PRT report extraction outcome.
type ReportResult struct {
	Rows        []fipreports.Row
	Table       *tabular.Table
	Diagnostics fipreports.Diagnostics
}

// ExtractFIPReports scans PRT report text for region report blocks of the
// given FIP family.
func (s *ExtractionService) ExtractFIPReports(ctx context.Context, report io.Reader, fipname string) (*ReportResult, error) {
	rows, diag, err := fipreports.Parse(report, fipname)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "region reports extracted",
		slog.String("fipname", fipname),
		slog.Int("blocks", diag.BlocksSeen),
		slog.Int("rows", diag.RowsEmitted),
		slog.Int("dropped", len(diag.Dropped)))
	return &ReportResult{Rows: rows, Table: fipreports.Table(rows), Diagnostics: diag}, nil
}
