package handler

import (
	"io"
	"strings"

	appdocument "github.com/StephaneWamba/InvoiceFlow/internal/application/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document upload and retrieval endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *appdocument.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *appdocument.Service) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload accepts a multipart document upload for a workspace. The form must
// carry a "file" part and a "document_type" field.
func (h *DocumentHandler) Upload(c *gin.Context) {
	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	docType := document.Type(strings.ToUpper(strings.TrimSpace(c.PostForm("document_type"))))
	if !docType.IsValid() {
		h.BadRequest(c, "document_type must be one of: PURCHASE_ORDER, INVOICE, DELIVERY_NOTE")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	resp, err := h.documentService.Upload(c.Request.Context(), workspaceID, docType, header.Filename, header.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListByWorkspace returns all documents in a workspace
func (h *DocumentHandler) ListByWorkspace(c *gin.Context) {
	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	resp, err := h.documentService.ListByWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a single document's metadata
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	resp, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetExtractedData returns the structured extraction output for a document
func (h *DocumentHandler) GetExtractedData(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	resp, err := h.documentService.GetExtractedData(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Download streams the original uploaded file back to the client
func (h *DocumentHandler) Download(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	reader, doc, err := h.documentService.GetFile(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(200)
	_, _ = io.Copy(c.Writer, reader)
}

// Delete removes a document, its blob and its extraction output
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workspaces/:id/documents", h.Upload)
	rg.GET("/workspaces/:id/documents", h.ListByWorkspace)

	documents := rg.Group("/documents")
	{
		documents.GET("/:id", h.Get)
		documents.GET("/:id/data", h.GetExtractedData)
		documents.GET("/:id/file", h.Download)
		documents.DELETE("/:id", h.Delete)
	}
}
