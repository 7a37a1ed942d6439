package controllers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/services"
	"github.com/yigit/projectdesk/internal/middleware"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// multipartOverhead is the allowance for form fields and part headers on top of the file limit
const multipartOverhead = 1 << 20

// DocumentController handles document upload, download, deletion and review
type DocumentController struct {
	documentService services.DocumentService
	maxUploadBytes  int64
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, maxUploadBytes int64, logger zerolog.Logger) *DocumentController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = services.DefaultMaxUploadBytes
	}
	return &DocumentController{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// Upload stores a document for a project
// @Summary Upload document
// @Description Multipart upload by the project leader or a roster member. The file part is limited to 10 MB.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param name formData string true "Document name"
// @Param description formData string false "Document description"
// @Param documentFile formData file true "Document file"
// @Success 201 {object} dto.APIResponse{data=dto.UploadDocumentResponse} "Document uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing name or file"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /projects/upload-document/{projectId} [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes+multipartOverhead)

	var form dto.UploadDocumentForm
	if err := ctx.ShouldBind(&form); err != nil {
		if isBodyTooLarge(err) {
			middleware.HandleAPIError(ctx, apperrors.ErrFileTooLarge)
			return
		}
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	file, err := ctx.FormFile(services.DocumentFileField)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.logger.Warn().Err(err).Msg("Failed to read uploaded file part")
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid multipart request"))
		return
	}

	resp, err := c.documentService.Upload(ctx.Request.Context(), actor, ctx.Param("projectId"), &form, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Download streams a stored document to the project leader
// @Summary Download document
// @Description Served as an attachment named after the document
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param fileName path string true "Stored file name"
// @Success 200 {file} file "Document content"
// @Failure 403 {object} dto.ErrorResponse "Only the project leader"
// @Failure 404 {object} dto.ErrorResponse "Document or stored file not found"
// @Router /projects/documents/download/{fileName} [get]
func (c *DocumentController) Download(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	download, err := c.documentService.Download(ctx.Request.Context(), actor, ctx.Param("fileName"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer download.Content.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": download.FileName})
	ctx.DataFromReader(http.StatusOK, download.Size, download.MimeType, download.Content, map[string]string{
		"Content-Disposition": disposition,
	})
}

// Delete removes a document and its stored file
// @Summary Delete document
// @Description The record is removed even when the stored file is already gone
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param docId path string true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document deleted"
// @Failure 403 {object} dto.ErrorResponse "Only the project leader"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /projects/documents/{docId} [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	if err := c.documentService.Delete(ctx.Request.Context(), actor, ctx.Param("docId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Document deleted successfully."}))
}

// Review approves or rejects a pending document
// @Summary Review document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param docId path string true "Document ID"
// @Param request body dto.DocumentStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.DocumentStatusResponse} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Status must be approved or rejected"
// @Failure 403 {object} dto.ErrorResponse "Not the project's mentor"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 409 {object} dto.ErrorResponse "Document already reviewed"
// @Router /projects/documents/{docId}/status [put]
func (c *DocumentController) Review(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.DocumentStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.documentService.Review(ctx.Request.Context(), actor, ctx.Param("docId"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	// some multipart errors flatten the cause into text
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
