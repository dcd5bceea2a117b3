package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/retailpos/backend/internal/application/checkout"
	"github.com/retailpos/backend/internal/domain/pos"
	"github.com/retailpos/backend/internal/domain/printing"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// PosOrderHandler handles order capture, export and receipt API endpoints
type PosOrderHandler struct {
	BaseHandler
	captureService *checkoutapp.CaptureService
	exportService  *checkoutapp.ExportService
}

// NewPosOrderHandler creates a new PosOrderHandler
func NewPosOrderHandler(
	captureService *checkoutapp.CaptureService,
	exportService *checkoutapp.ExportService,
) *PosOrderHandler {
	return &PosOrderHandler{
		captureService: captureService,
		exportService:  exportService,
	}
}

// Capture godoc
// @Summary      Capture a POS order
// @Description  Apply one capture envelope. The first capture of a client order UID creates the order; every retry or amendment is a sparse patch where only the keys present in the envelope overwrite. Undeclared attribute keys are ignored, never rejected.
// @Tags         pos-orders
// @Accept       json
// @Produce      json
// @Param        X-Terminal-ID header string false "Terminal ID (optional)"
// @Param        request body checkoutapp.CaptureOrderRequest true "Capture envelope"
// @Success      201 {object} dto.Response{data=checkoutapp.PosOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/orders [post]
func (h *PosOrderHandler) Capture(c *gin.Context) {
	var req checkoutapp.CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.captureService.CaptureOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get captured order by ID
// @Description  Retrieve a captured order by server ID or client order UID
// @Tags         pos-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID or client order UID" format(uuid)
// @Success      200 {object} dto.Response{data=checkoutapp.PosOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/orders/{id} [get]
func (h *PosOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.captureService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary      List captured orders
// @Description  Retrieve a paginated list of captured orders with optional filtering
// @Tags         pos-orders
// @Accept       json
// @Produce      json
// @Param        session_id query string false "Session ID" format(uuid)
// @Param        cashier query string false "Cashier name"
// @Param        priority query string false "Order priority" Enums(low, normal, high, urgent)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(captured_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]checkoutapp.PosOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/orders [get]
func (h *PosOrderHandler) List(c *gin.Context) {
	var filter checkoutapp.PosOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.captureService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Export godoc
// @Summary      Export a captured order
// @Description  Returns the order in capture shape with per-line brand snapshots, as a downstream print bridge consumes it
// @Tags         pos-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID or client order UID" format(uuid)
// @Success      200 {object} dto.Response{data=pos.PrintEnvelope}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/orders/{id}/export [get]
func (h *PosOrderHandler) Export(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	envelope, err := h.exportService.Export(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, envelope)
}

// Receipt godoc
// @Summary      Reprint a captured order receipt
// @Description  Formats the captured order into a receipt document via the reprint path. Per-line snapshots taken at capture time survive later catalog renames; a reference that never resolved renders an explicit unknown placeholder.
// @Tags         pos-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID or client order UID" format(uuid)
// @Success      200 {object} dto.Response{data=printing.RenderDocument}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pos/orders/{id}/receipt [get]
func (h *PosOrderHandler) Receipt(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	doc, err := h.exportService.Receipt(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// Helper function to suppress unused import warning
var _ = pos.PrintEnvelope{}
var _ = printing.RenderDocument{}
var _ = dto.Response{}
