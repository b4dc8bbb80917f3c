package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reconlab/wba-recon/internal/api/dto"
)

func testWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func journalBytes(t *testing.T) []byte {
	return testWorkbook(t, [][]interface{}{
		{"Data", "Conta Débito", "Conta Crédito", "Histórico", "Valor"},
		{"01/03/2024", "111", "222", "pagamento fornecedor", "500,00"},
		{"10/03/2024", "333", "444", "tarifa bancaria", "80,00"},
	})
}

func wbaBytes(t *testing.T) []byte {
	return testWorkbook(t, [][]interface{}{
		{"Cta.Deb", "Cta.C.Partida", "Vlr.Lançamento", "Data", "Histórico"},
		{"111", "222", "500,00", "01/03/2024", "pagamento fornecedor"},
	})
}

func reconcileRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := mw.CreateFormFile(name, name+".xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestServer() *Server {
	return NewServer(DefaultConfig(), nil, nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestReconcile_JSONSummary(t *testing.T) {
	srv := newTestServer()

	req := reconcileRequest(t, map[string]string{"format": "json"}, map[string][]byte{
		"journal": journalBytes(t),
		"wba":     wbaBytes(t),
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.ReconcileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 2, resp.JournalRows)
	assert.Equal(t, 1, resp.WBARows)
	assert.Equal(t, 1, resp.TierCounts["exact"])
	assert.Equal(t, 1, resp.TierCounts["only_journal"])
}

func TestReconcile_XLSXDownload(t *testing.T) {
	srv := newTestServer()

	req := reconcileRequest(t, nil, map[string][]byte{
		"journal": journalBytes(t),
		"wba":     wbaBytes(t),
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reconciliation_")
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Exact_Matches")
}

func TestReconcile_MissingFile(t *testing.T) {
	srv := newTestServer()

	req := reconcileRequest(t, nil, map[string][]byte{"journal": journalBytes(t)})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr dto.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, dto.ErrCodeBadRequest, apiErr.Code)
}

func TestReconcile_UnmappableWBAHeader(t *testing.T) {
	srv := newTestServer()

	bad := testWorkbook(t, [][]interface{}{
		{"Foo", "Bar", "Baz"},
		{"1", "2", "3"},
	})
	req := reconcileRequest(t, nil, map[string][]byte{
		"journal": journalBytes(t),
		"wba":     bad,
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var apiErr dto.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, dto.ErrCodeValidation, apiErr.Code)
}

func TestReconcile_InvalidOverrides(t *testing.T) {
	srv := newTestServer()

	req := reconcileRequest(t, map[string]string{"similarity_threshold": "1.5"}, map[string][]byte{
		"journal": journalBytes(t),
		"wba":     wbaBytes(t),
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/reconcile", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
