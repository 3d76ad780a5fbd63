package handler

import (
	matchingapp "github.com/StephaneWamba/InvoiceFlow/internal/application/matching"
	"github.com/gin-gonic/gin"
)

// MatchingHandler handles reconciliation endpoints
type MatchingHandler struct {
	BaseHandler
	matchingService *matchingapp.Service
}

// NewMatchingHandler creates a new MatchingHandler
func NewMatchingHandler(matchingService *matchingapp.Service) *MatchingHandler {
	return &MatchingHandler{matchingService: matchingService}
}

// Reconcile runs document reconciliation for a workspace. Only one run per
// workspace may be active; a concurrent request gets 409.
func (h *MatchingHandler) Reconcile(c *gin.Context) {
	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	resp, err := h.matchingService.RunWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListResults returns the matching results of a workspace's last run
func (h *MatchingHandler) ListResults(c *gin.Context) {
	workspaceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID format")
		return
	}

	resp, err := h.matchingService.ListResults(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetResult returns a single matching result with its discrepancies
func (h *MatchingHandler) GetResult(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid result ID format")
		return
	}

	resp, err := h.matchingService.GetResult(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all reconciliation routes
func (h *MatchingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workspaces/:id/reconcile", h.Reconcile)
	rg.GET("/workspaces/:id/results", h.ListResults)
	rg.GET("/results/:id", h.GetResult)
}
