package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// PosCatalogHandler handles session bulk-load API endpoints
type PosCatalogHandler struct {
	BaseHandler
	sessionDataService *catalogapp.SessionDataService
}

// NewPosCatalogHandler creates a new PosCatalogHandler
func NewPosCatalogHandler(sessionDataService *catalogapp.SessionDataService) *PosCatalogHandler {
	return &PosCatalogHandler{
		sessionDataService: sessionDataService,
	}
}

// Load godoc
// @Summary      Bulk-load catalog records for a POS session
// @Description  Execute one bulk-load request: an entity kind, a domain filter and a field projection. Returns flat records carrying exactly the requested fields plus id, ready for the terminal to index.
// @Tags         pos-catalog
// @Accept       json
// @Produce      json
// @Param        X-Terminal-ID header string false "Terminal ID (optional)"
// @Param        request body catalogapp.BulkLoadRequest true "Bulk load request"
// @Success      200 {object} dto.Response{data=catalogapp.BulkLoadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/catalog/load [post]
func (h *PosCatalogHandler) Load(c *gin.Context) {
	var req catalogapp.BulkLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.sessionDataService.LoadEntities(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Helper function to suppress unused import warning
var _ = dto.Response{}
