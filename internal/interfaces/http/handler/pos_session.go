package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	checkoutapp "github.com/retailpos/backend/internal/application/checkout"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// PosSessionHandler handles POS session API endpoints
type PosSessionHandler struct {
	BaseHandler
	sessionService     *checkoutapp.PosSessionService
	sessionDataService *catalogapp.SessionDataService
}

// NewPosSessionHandler creates a new PosSessionHandler
func NewPosSessionHandler(
	sessionService *checkoutapp.PosSessionService,
	sessionDataService *catalogapp.SessionDataService,
) *PosSessionHandler {
	return &PosSessionHandler{
		sessionService:     sessionService,
		sessionDataService: sessionDataService,
	}
}

// Open godoc
// @Summary      Open a POS session
// @Description  Open a new POS session for a terminal and cashier
// @Tags         pos-sessions
// @Accept       json
// @Produce      json
// @Param        X-Terminal-ID header string false "Terminal ID (optional)"
// @Param        request body checkoutapp.OpenPosSessionRequest true "Session open request"
// @Success      201 {object} dto.Response{data=checkoutapp.PosSessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/sessions [post]
func (h *PosSessionHandler) Open(c *gin.Context) {
	var req checkoutapp.OpenPosSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, session)
}

// Close godoc
// @Summary      Close a POS session
// @Description  Close an open POS session; captures against a closed session are rejected
// @Tags         pos-sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=checkoutapp.PosSessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/sessions/{id}/close [post]
func (h *PosSessionHandler) Close(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	session, err := h.sessionService.CloseSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// GetByID godoc
// @Summary      Get POS session by ID
// @Description  Retrieve a POS session by its ID
// @Tags         pos-sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=checkoutapp.PosSessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/sessions/{id} [get]
func (h *PosSessionHandler) GetByID(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// LoadParams godoc
// @Summary      Get session bootstrap load params
// @Description  Returns the canonical bulk-load requests a terminal issues during session bootstrap, one per bulk-loadable entity kind. Each entry names the entity kind, the active-only domain filter and the field projection.
// @Tags         pos-sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalog.LoadParams}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/sessions/{id}/load-params [get]
func (h *PosSessionHandler) LoadParams(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	// The session must exist before the terminal may bootstrap from it
	if _, err := h.sessionService.GetByID(c.Request.Context(), sessionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, h.sessionDataService.CanonicalLoadParams())
}

// Helper function to suppress unused import warning
var _ = catalog.LoadParams{}
var _ = dto.Response{}
