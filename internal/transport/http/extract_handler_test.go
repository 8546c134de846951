package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eclcli/internal/services"
)

func testHandler() *ExtractHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExtractHandler(services.NewExtractionService(logger), logger)
}

func postJSON(t *testing.T, handler *ExtractHandler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func TestExtractPVTEndpoint(t *testing.T) {
	body, err := json.Marshal(map[string]string{
		"deck": "TABDIMS\n 1* 1 /\n\nDENSITY\n 860.0 1001.0 0.9 /\n",
	})
	require.NoError(t, err)

	rec := postJSON(t, testHandler(), "/pvt", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.RegionCount)
	assert.Equal(t, "declared", resp.Provenance)
	assert.Equal(t, "KEYWORD", resp.Columns[0])
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "DENSITY", resp.Rows[0][0])
	assert.Empty(t, resp.KeywordErrors)
}

func TestExtractPVTInfersWhenSizingAbsent(t *testing.T) {
	body, err := json.Marshal(map[string]string{
		"deck": "DENSITY\n 860.0 1001.0 0.9 /\n 900.0 1000.0 1.1 /\n",
	})
	require.NoError(t, err)

	rec := postJSON(t, testHandler(), "/pvt", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.RegionCount)
	assert.Equal(t, "inferred", resp.Provenance)
}

func TestExtractRejectsMissingDeck(t *testing.T) {
	rec := postJSON(t, testHandler(), "/pvt", `{"region_count": 2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestExtractRejectsMalformedJSON(t *testing.T) {
	rec := postJSON(t, testHandler(), "/satfunc", `{"deck": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractUnparsableDeckIsUnprocessable(t *testing.T) {
	body, err := json.Marshal(map[string]interface{}{
		"deck":         "TABDIMS\n 1* 1 /\n\nDENSITY\n 860.0 1001.0 0.9 /\n 900.0 1000.0 1.1 /\n",
		"region_count": 0,
	})
	require.NoError(t, err)

	// Declared count 1 but two records: trailing data fails the whole deck.
	rec := postJSON(t, testHandler(), "/pvt", string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "DECK_PARSE_ERROR")
}

func TestExtractFIPReportsEndpoint(t *testing.T) {
	report := "                                                : FIPZON  REPORT REGION    3    :\n" +
		" :CURRENTLY IN PLACE       :     21091398.                    21091398.:       4590182. :           -0.    483594842.     483594842.\n"
	body, err := json.Marshal(map[string]string{"report": report, "fipname": "FIPZON"})
	require.NoError(t, err)

	rec := postJSON(t, testHandler(), "/fipreports", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 1, resp.Diagnostics.BlocksSeen)
	assert.Equal(t, 1, resp.Diagnostics.RowsEmitted)
}

func TestExtractFIPReportsRejectsBadFIPName(t *testing.T) {
	body, err := json.Marshal(map[string]string{"report": "x", "fipname": "REGIONS"})
	require.NoError(t, err)

	rec := postJSON(t, testHandler(), "/fipreports", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
