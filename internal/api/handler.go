package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/statement-extractor/internal/buildinfo"
	"github.com/insightdelivered/statement-extractor/internal/convert"
	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/normalize"
	"github.com/insightdelivered/statement-extractor/internal/parser"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

// pageBreak separates pages in client-extracted text.
const pageBreak = "\n---PAGE_BREAK---\n"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                           `json:"success"`
	Error        string                         `json:"error,omitempty"`
	Transactions []models.NormalizedTransaction `json:"transactions"`
	Warnings     []models.Warning               `json:"warnings,omitempty"`
	Trace        []models.TraceLine             `json:"trace,omitempty"`
	Count        int                            `json:"count"`
	Version      string                         `json:"version,omitempty"`
}

// Handler serves the conversion API.
type Handler struct {
	Parser     *parser.Parser
	Normalizer *normalize.Normalizer
	XLSX       *writer.XLSXWriter
	Log        logrus.FieldLogger
}

// NewHandler returns a Handler with the default patterns, date format and
// report names.
func NewHandler(log logrus.FieldLogger) *Handler {
	return &Handler{
		Parser:     parser.NewDefault(),
		Normalizer: normalize.New(""),
		XLSX:       writer.NewXLSXWriter(),
		Log:        log,
	}
}

// Register adds the API routes to app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.Health)
	app.Get("/api/formats", h.Formats)
	app.Post("/api/convert", h.Convert)
}

// Health reports the service status.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// Formats lists the output date formats with their examples.
func (h *Handler) Formats(c *fiber.Ctx) error {
	return c.JSON(normalize.DateFormats)
}

// Convert accepts a statement upload (field "file") or client-extracted
// text (field "extractedText") and returns the report.
func (h *Handler) Convert(c *fiber.Ctx) error {
	format := strings.ToLower(c.FormValue("format", "xlsx"))
	if format != "xlsx" && format != "csv" && format != "json" {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown format %q. Use xlsx, csv, or json.", format))
	}

	p := h.Parser
	if p == nil {
		p = parser.NewDefault()
	}

	pages, filename, err := h.readPages(c, p.Patterns().Date)
	if err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return writeError(c, re.status, re.msg)
		}
		return err
	}

	conv := &convert.Converter{Parser: p, Normalizer: h.normalizer(c.FormValue("dateFormat"))}
	res := conv.Convert(pages)

	log := h.logger().WithField("file", filename)
	for _, w := range res.Warnings {
		log.WithField("warning", w.Kind).Warn(w.String())
	}

	if res.Empty() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ConvertResponse{
			Success:      false,
			Error:        "No transactions found. Please check the statement format.",
			Transactions: []models.NormalizedTransaction{},
			Warnings:     res.Warnings,
			Trace:        res.Trace,
		})
	}

	if format == "json" {
		return c.JSON(ConvertResponse{
			Success:      true,
			Transactions: res.Normalized,
			Warnings:     res.Warnings,
			Trace:        res.Trace,
			Count:        len(res.Normalized),
			Version:      buildinfo.Version,
		})
	}

	var w writer.Writer = h.xlsx()
	contentType := xlsxContentType
	if format == "csv" {
		w = &writer.CSVWriter{}
		contentType = "text/csv"
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, res.Normalized); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Report generation failed: %v", err))
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", base+"_extracted"+w.Ext()))
	c.Set("X-Warning-Count", strconv.Itoa(len(res.Warnings)))
	c.Set("X-Transaction-Count", strconv.Itoa(len(res.Normalized)))
	return c.Send(buf.Bytes())
}

// requestError is a failure to turn the request into statement text.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// readPages returns the statement text from the request and a name for it.
func (h *Handler) readPages(c *fiber.Ctx, lineStart *regexp.Regexp) ([]string, string, error) {
	if text := c.FormValue("extractedText"); strings.TrimSpace(text) != "" {
		return extractor.SplitPages(text, pageBreak), "statement", nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", &requestError{fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'."}
	}
	if !extractor.Supported(header.Filename) {
		return nil, "", &requestError{fiber.StatusBadRequest, "Only PDF and text files are supported."}
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", &requestError{fiber.StatusBadRequest, "Failed to read uploaded file."}
	}
	defer file.Close()

	tmpFile, err := os.CreateTemp("", "statement-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		return nil, "", &requestError{fiber.StatusInternalServerError, "Failed to create temp file."}
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, file); err != nil {
		return nil, "", &requestError{fiber.StatusInternalServerError, "Failed to save uploaded file."}
	}
	tmpFile.Close()

	pages, err := extractor.ExtractTextFor(tmpFile.Name(), lineStart)
	if err != nil {
		return nil, "", &requestError{fiber.StatusUnprocessableEntity, fmt.Sprintf("Text extraction failed: %v", err)}
	}
	return pages, filepath.Base(header.Filename), nil
}

// normalizer returns h.Normalizer, or a copy using the requested format.
func (h *Handler) normalizer(dateFormat string) *normalize.Normalizer {
	base := h.Normalizer
	if base == nil {
		base = normalize.New("")
	}
	if dateFormat == "" {
		return base
	}
	n := *base
	n.OutputFormat = dateFormat
	return &n
}

func (h *Handler) xlsx() *writer.XLSXWriter {
	if h.XLSX == nil {
		return writer.NewXLSXWriter()
	}
	return h.XLSX
}

func (h *Handler) logger() logrus.FieldLogger {
	if h.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l
	}
	return h.Log
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.NormalizedTransaction{},
	})
}
