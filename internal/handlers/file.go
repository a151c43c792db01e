package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/constants"
	"github.com/complytrack/compliance-tracker-api/internal/dto"
	apierrors "github.com/complytrack/compliance-tracker-api/internal/errors"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// FileHandler serves task attachments.
type FileHandler struct {
	fileService *services.FileService
	maxBytes    int64
	publicRead  bool
	log         *slog.Logger
}

// NewFileHandler creates a FileHandler. When publicRead is set, Fetch skips
// the visibility check and is expected to be mounted without authentication.
func NewFileHandler(fileService *services.FileService, maxBytes int64, publicRead bool, log *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxBytes:    maxBytes,
		publicRead:  publicRead,
		log:         log,
	}
}

// Upload stores a multipart file against a task
func (h *FileHandler) Upload(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	header, err := c.FormFile(constants.UploadFormField)
	if err != nil {
		if isTooLarge(err) {
			apierrors.PayloadTooLarge(c, fmt.Sprintf("File exceeds %d bytes", h.maxBytes))
			return
		}
		apierrors.BadRequest(c, "No file uploaded")
		return
	}

	src, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		apierrors.BadRequest(c, "Unable to read uploaded file")
		return
	}

	file, err := h.fileService.Upload(scope, taskID, services.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskFileDTO(*file))
}

// Fetch streams a file payload. The file must belong to the task in the path.
func (h *FileHandler) Fetch(c *gin.Context) {
	var scope *access.Scope
	if !h.publicRead {
		s, ok := requireScope(c)
		if !ok {
			return
		}
		scope = &s
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}

	file, err := h.fileService.Fetch(scope, taskID, fileID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.FileName}))
	c.Data(http.StatusOK, file.ContentType, file.FileData)
}

// Delete removes an attachment
func (h *FileHandler) Delete(c *gin.Context) {
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}

	if err := h.fileService.Delete(fileID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
