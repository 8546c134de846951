// Package http exposes the extraction operations over a chi REST API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "eclcli/internal/errors"
	"eclcli/internal/fipreports"
	"eclcli/internal/infrastructure"
	"eclcli/internal/services"
	"eclcli/internal/tabular"
)

// ExtractHandler handles deck and report extraction requests.
type ExtractHandler struct {
	service  *services.ExtractionService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewExtractHandler creates an extraction handler.
func NewExtractHandler(service *services.ExtractionService, logger *slog.Logger) *ExtractHandler {
	return &ExtractHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "extract_handler")),
		validate: validator.New(),
	}
}

// Routes returns the extraction routes.
func (h *ExtractHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/pvt", h.ExtractPVT)
	r.Post("/satfunc", h.ExtractSatFunc)
	r.Post("/fipreports", h.ExtractFIPReports)
	return r
}

// DeckExtractRequest is the request body for deck table extraction.
type DeckExtractRequest struct {
	Deck         string `json:"deck" validate:"required"`
	RegionCount  int    `json:"region_count" validate:"omitempty,min=1"`
	GuessCeiling int    `json:"guess_ceiling" validate:"omitempty,min=1"`
}

// Bind implements render.Binder.
func (req *DeckExtractRequest) Bind(r *http.Request) error { return nil }

// ReportExtractRequest is the request body for PRT report extraction.
type ReportExtractRequest struct {
	Report  string `json:"report" validate:"required"`
	FIPName string `json:"fipname" validate:"omitempty,startswith=FIP,max=8"`
}

// Bind implements render.Binder.
func (req *ReportExtractRequest) Bind(r *http.Request) error { return nil }

// TableResponse carries an extracted table plus per-keyword errors.
type TableResponse struct {
	Columns       []string        `json:"columns"`
	Rows          [][]interface{} `json:"rows"`
	RegionCount   int             `json:"region_count,omitempty"`
	Provenance    string          `json:"count_provenance,omitempty"`
	KeywordErrors []string        `json:"keyword_errors"`
}

// ReportResponse carries the report table plus scan diagnostics.
type ReportResponse struct {
	Columns     []string               `json:"columns"`
	Rows        [][]interface{}        `json:"rows"`
	Diagnostics fipreports.Diagnostics `json:"diagnostics"`
}

// ExtractPVT handles POST /pvt.
func (h *ExtractHandler) ExtractPVT(w http.ResponseWriter, r *http.Request) {
	h.extractDeck(w, r, "pvt", h.service.ExtractPVT)
}

// ExtractSatFunc handles POST /satfunc.
func (h *ExtractHandler) ExtractSatFunc(w http.ResponseWriter, r *http.Request) {
	h.extractDeck(w, r, "satfunc", h.service.ExtractSatFunc)
}

func (h *ExtractHandler) extractDeck(w http.ResponseWriter, r *http.Request, kind string,
	extract func(ctx context.Context, deckText string, opts services.DeckOptions) (*services.DeckResult, error)) {

	ctx := r.Context()
	logger := infrastructure.LoggerWithContext(ctx)
	start := time.Now()

	var req DeckExtractRequest
	if err := render.Bind(r, &req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result, err := extract(ctx, req.Deck, services.DeckOptions{
		RegionCount:  req.RegionCount,
		GuessCeiling: req.GuessCeiling,
	})
	if err != nil {
		logger.WarnContext(ctx, "deck extraction failed", "error", err)
		observeExtraction(kind, "error", 0, time.Since(start).Seconds())
		render.Render(w, r, apierrors.FromExtractionError(err))
		return
	}
	observeExtraction(kind, "ok", result.Table.Len(), time.Since(start).Seconds())

	resp := &TableResponse{
		Columns:       result.Table.Columns(),
		Rows:          tableRows(result.Table),
		RegionCount:   result.Count.N,
		Provenance:    result.Count.Provenance.String(),
		KeywordErrors: errorStrings(result.KeywordErrors),
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// ExtractFIPReports handles POST /fipreports.
func (h *ExtractHandler) ExtractFIPReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := infrastructure.LoggerWithContext(ctx)
	start := time.Now()

	var req ReportExtractRequest
	if err := render.Bind(r, &req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.FIPName == "" {
		req.FIPName = "FIPNUM"
	}

	result, err := h.service.ExtractFIPReports(ctx, strings.NewReader(req.Report), req.FIPName)
	if err != nil {
		logger.WarnContext(ctx, "report extraction failed", "error", err)
		observeExtraction("fipreports", "error", 0, time.Since(start).Seconds())
		render.Render(w, r, apierrors.FromExtractionError(err))
		return
	}
	observeExtraction("fipreports", "ok", result.Table.Len(), time.Since(start).Seconds())

	resp := &ReportResponse{
		Columns:     result.Table.Columns(),
		Rows:        tableRows(result.Table),
		Diagnostics: result.Diagnostics,
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// tableRows renders cells as JSON values: numbers stay numbers, missing
// cells become null.
func tableRows(t *tabular.Table) [][]interface{} {
	rows := make([][]interface{}, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, 0, len(t.Columns()))
		for _, cell := range t.Row(i) {
			switch {
			case cell.IsNull():
				row = append(row, nil)
			default:
				if v, ok := cell.Float64(); ok {
					row = append(row, v)
				} else {
					row = append(row, cell.String())
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
