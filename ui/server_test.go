package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gridlens/internal/config"
	"gridlens/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewServer(config.Config{
		Server: config.ServerConfig{Port: "0", GinMode: gin.TestMode},
		Data:   config.DataConfig{MaxUploadBytes: 8 << 20, TypeSampleRows: 500},
	})
}

func uploadCSV(t *testing.T, s *Server, filename, content string) map[string]interface{} {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func getJSON(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var resp map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func TestHealth(t *testing.T) {
	code, resp := getJSON(t, testServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
}

func TestUpload(t *testing.T) {
	s := testServer(t)
	resp := uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "sales.csv", resp["name"])
	assert.EqualValues(t, 12, resp["rows"])
	assert.EqualValues(t, 5, resp["columns"])
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	s := testServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_FILE")
}

func TestUploadWithoutFileField(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader(""))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryForCurrentDataset(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	code, resp := getJSON(t, s, "/api/datasets/current/summary")
	require.Equal(t, http.StatusOK, code)

	summary, ok := resp["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 12, summary["rows"])
	assert.EqualValues(t, 2, summary["numericColumns"])
}

func TestSummaryWithoutUpload(t *testing.T) {
	code, _ := getJSON(t, testServer(t), "/api/datasets/current/summary")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestProfileEndpoint(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	code, resp := getJSON(t, s, "/api/datasets/current/profile")
	require.Equal(t, http.StatusOK, code)

	columns, ok := resp["columns"].([]interface{})
	require.True(t, ok)
	assert.Len(t, columns, 5)
}

func TestChartsEndpoint(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	code, resp := getJSON(t, s, "/api/datasets/current/charts")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, resp["count"])
}

func TestTableEndpoint(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	code, resp := getJSON(t, s, "/api/datasets/current/table?search=north&sortBy=revenue&sortDir=desc&pageSize=2")
	require.Equal(t, http.StatusOK, code)

	assert.EqualValues(t, 3, resp["filtered"])
	rows, ok := resp["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)

	first, ok := rows[0].([]interface{})
	require.True(t, ok)
	assert.Equal(t, "122", first[3], "highest northern revenue first")
}

func TestNarrativeEndpoint(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	code, resp := getJSON(t, s, "/api/datasets/current/narrative")
	require.Equal(t, http.StatusOK, code)
	md, ok := resp["markdown"].(string)
	require.True(t, ok)
	assert.Contains(t, md, "# sales.csv")
	assert.NotEmpty(t, resp["html"])
}

func TestQueryEndpoint(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	payload := `{"question":"what is the average revenue?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/current/query", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "average", resp["intent"])
	assert.InDelta(t, 65.75, resp["value"].(float64), 1e-9)
}

func TestQueryEndpointRejectsEmptyBody(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "sales.csv", testkit.SalesCSV)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/current/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDatasets(t *testing.T) {
	s := testServer(t)
	uploadCSV(t, s, "first.csv", testkit.SalesCSV)
	uploadCSV(t, s, "second.csv", testkit.SalesCSV)

	code, resp := getJSON(t, s, "/api/datasets")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, resp["count"])
}
