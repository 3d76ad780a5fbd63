package handler

import (
	workspaceapp "github.com/StephaneWamba/InvoiceFlow/internal/application/workspace"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler handles workspace-related API endpoints
type WorkspaceHandler struct {
	BaseHandler
	workspaceService *workspaceapp.Service
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *workspaceapp.Service) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create creates a new workspace
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req workspaceapp.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.workspaceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single workspace by ID
func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	resp, err := h.workspaceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	resp, err := h.workspaceService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update renames a workspace or toggles its temporary flag
func (h *WorkspaceHandler) Update(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	var req workspaceapp.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.workspaceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a workspace along with its documents and results
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	if err := h.workspaceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all workspace routes
func (h *WorkspaceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workspaces := rg.Group("/workspaces")
	{
		workspaces.POST("", h.Create)
		workspaces.GET("", h.List)
		workspaces.GET("/:id", h.Get)
		workspaces.PUT("/:id", h.Update)
		workspaces.DELETE("/:id", h.Delete)
	}
}
