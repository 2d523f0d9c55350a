package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readstack/internal/importers"
	"github.com/mrlokans/readstack/internal/services"
)

// maxImportSize caps uploaded export blobs at 10 MB.
const maxImportSize = 10 << 20

type ImportController struct {
	service *services.ImportService
}

func NewImportController(service *services.ImportService) *ImportController {
	return &ImportController{
		service: service,
	}
}

// ImportCSV handles POST /api/import/csv.
func (controller *ImportController) ImportCSV(c *gin.Context) {
	controller.runImport(c, importers.NewCSVImporter())
}

// ImportMarkdown handles POST /api/import/markdown.
func (controller *ImportController) ImportMarkdown(c *gin.Context) {
	controller.runImport(c, importers.NewMarkdownImporter())
}

// Dedupe handles POST /api/books/dedupe.
func (controller *ImportController) Dedupe(c *gin.Context) {
	result, err := controller.service.Dedupe()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}

func (controller *ImportController) runImport(c *gin.Context, importer importers.Importer) {
	text, err := readImportPayload(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if text == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "no import data provided"})
		return
	}

	result, err := controller.service.Import(importer, text)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, result)
}

// readImportPayload accepts either a multipart upload under "file" or the
// raw request body.
func readImportPayload(c *gin.Context) (string, error) {
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
