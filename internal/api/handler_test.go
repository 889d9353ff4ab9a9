package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/normalize"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

const statementText = "01-Jan-2023 Salary Credit\n25,000.00 30,38,234.66Dr\n---PAGE_BREAK---\n05-Jan-2023 ATM Withdrawal\ncontinued note\n5,000.00 30,33,234.66Dr"

func setupTestApp() *fiber.App {
	return NewApp(NewHandler(nil), 1)
}

func multipartRequest(t *testing.T, fields map[string]string, fileName, fileBody string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(fileBody))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v))
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	decode(t, resp, &result)
	assert.Equal(t, "ok", result["status"])
	assert.NotEmpty(t, result["version"])
}

func TestFormatsEndpoint(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/formats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var formats []normalize.DateFormat
	decode(t, resp, &formats)
	assert.Equal(t, normalize.DateFormats, formats)
}

func TestConvertEndpointRequiresInput(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, map[string]string{"format": "json"}, "", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result ConvertResponse
	decode(t, resp, &result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "No file uploaded")
}

func TestConvertEndpointRejectsUnknownFormat(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, map[string]string{"format": "ods", "extractedText": statementText}, "", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestConvertEndpointRejectsUnsupportedFile(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, nil, "statement.docx", "data"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestConvertEndpointJSON(t *testing.T) {
	app := setupTestApp()

	req := multipartRequest(t, map[string]string{
		"format":        "json",
		"dateFormat":    "%Y-%m-%d",
		"extractedText": statementText,
	}, "", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ConvertResponse
	decode(t, resp, &result)
	assert.True(t, result.Success)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "2023-01-01", result.Transactions[0].Date)
	assert.Equal(t, "ATM Withdrawal continued note", result.Transactions[1].Description)
	assert.Equal(t, "5000.00", result.Transactions[1].Amount.Decimal.StringFixed(2))
	assert.Equal(t, "Dr", result.Transactions[1].Marker)
	assert.NotEmpty(t, result.Trace)
}

func TestConvertEndpointXLSXFromTextFile(t *testing.T) {
	app := setupTestApp()

	text := "01-Jan-2023 Salary Credit\n25,000.00 30,38,234.66Dr\n"
	resp, err := app.Test(multipartRequest(t, nil, "march.txt", text), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "march_extracted.xlsx")
	assert.Equal(t, "1", resp.Header.Get("X-Transaction-Count"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(writer.DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, writer.Header, rows[0])
	assert.Equal(t, "Salary Credit", rows[1][1])
}

func TestConvertEndpointCSV(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, map[string]string{"format": "csv", "extractedText": statementText}, "", ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "01-Jan-2023,Salary Credit,25000.00,3038234.66")
}

func TestConvertEndpointNoTransactions(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, map[string]string{"extractedText": "nothing to see"}, "", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var result ConvertResponse
	decode(t, resp, &result)
	assert.False(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.WarnEmptyResult, result.Warnings[0].Kind)
}

func TestPreflight(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "POST")
}

func TestCORSHeaderOnResponse(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestPanicBecomesJSONError(t *testing.T) {
	app := setupTestApp()
	app.Get("/api/crash", func(c *fiber.Ctx) error {
		panic("parser exploded")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/crash", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

	var result ConvertResponse
	decode(t, resp, &result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "parser exploded")
}
