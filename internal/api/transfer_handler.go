package api

import (
	"bytes"
	"errors"
	"fmt"
	"gymnotes/training-tracker/internal/service"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxImportSize caps uploaded import files.
const maxImportSize = 10 << 20

// TransferHandler serves file import and export.
type TransferHandler struct {
	importService service.ImportService
	exportService service.ExportService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(importService service.ImportService, exportService service.ExportService) *TransferHandler {
	return &TransferHandler{importService: importService, exportService: exportService}
}

// Import godoc
// @Summary Import trainings from a file
// @Description Accepts .xlsx, .csv or JSON in the multipart field "file".
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet, CSV or JSON file"
// @Success 200 {object} service.ImportReport
// @Failure 400 {object} gin.H "Missing or unreadable file"
// @Router /import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Form field 'file' is required")
		return
	}
	if header.Size > maxImportSize {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("File is larger than %d bytes", maxImportSize))
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Printf("ERROR: Opening uploaded file %s: %v", header.Filename, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to read upload.")
		return
	}
	defer file.Close()

	report, err := h.importService.ImportFile(c.Request.Context(), header.Filename, file)
	if err != nil {
		var fileErr *service.ImportFileError
		if errors.As(err, &fileErr) {
			abortWithError(c, http.StatusBadRequest, fileErr.Error())
			return
		}
		log.Printf("ERROR: Importing %s: %v", header.Filename, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to import file.")
		return
	}

	c.JSON(http.StatusOK, report)
}

// Export godoc
// @Summary Download all trainings
// @Tags Transfer
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce json
// @Param format query string false "xlsx (default) or json"
// @Success 200 {file} file
// @Router /export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Buffer first so a failed export still gets a JSON error instead of a truncated file.
	var buf bytes.Buffer
	if err := h.exportService.Export(c.Request.Context(), format, &buf); err != nil {
		log.Printf("ERROR: Exporting %s: %v", format, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to export trainings.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.FileName()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Publish godoc
// @Summary Upload an export and get a temporary link
// @Tags Transfer
// @Produce json
// @Param format query string false "xlsx (default) or json"
// @Success 200 {object} service.PublishedExport
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /export/publish [post]
func (h *TransferHandler) Publish(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	published, err := h.exportService.Publish(c.Request.Context(), format)
	if err != nil {
		if errors.Is(err, service.ErrPublishUnavailable) {
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Printf("ERROR: Publishing %s export: %v", format, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to publish export.")
		return
	}

	c.JSON(http.StatusOK, published)
}
