package checkout

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/pos"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// CaptureOrderRequest is a capture envelope as posted by a terminal. The
// attribute objects stay raw until the registry types them; unknown keys
// are dropped during decoding, never rejected
type CaptureOrderRequest struct {
	OrderUID   uuid.UUID                  `json:"order_uid" binding:"required"`
	SessionID  uuid.UUID                  `json:"session_id" binding:"required"`
	Cashier    string                     `json:"cashier" binding:"required,max=100"`
	PlacedAt   time.Time                  `json:"placed_at"`
	Total      valueobject.Money          `json:"total"`
	Attributes map[string]json.RawMessage `json:"custom_attributes"`
	Lines      []CaptureLineRequest       `json:"lines" binding:"required,min=1,dive"`
}

// CaptureLineRequest is one order line inside a capture request
type CaptureLineRequest struct {
	ProductID   uuid.UUID                  `json:"product_id" binding:"required"`
	ProductName string                     `json:"product_name" binding:"required,max=200"`
	Quantity    valueobject.Quantity       `json:"quantity"`
	UnitPrice   valueobject.Money          `json:"unit_price"`
	Note        string                     `json:"note" binding:"max=500"`
	Attributes  map[string]json.RawMessage `json:"custom_attributes"`
}

// ToEnvelope types the raw request against the registry. It returns the
// decoded envelope plus the attribute keys that were ignored because no
// declaration covers them. Malformed values on declared keys error
func (r CaptureOrderRequest) ToEnvelope(reg *attribute.Registry) (pos.CaptureEnvelope, []string, error) {
	orderAttrs, ignored, err := attribute.DecodeSet(reg, attribute.KindOrder, r.Attributes)
	if err != nil {
		return pos.CaptureEnvelope{}, nil, err
	}

	lines := make([]pos.CaptureLine, len(r.Lines))
	for i, line := range r.Lines {
		lineAttrs, lineIgnored, err := attribute.DecodeSet(reg, attribute.KindProduct, line.Attributes)
		if err != nil {
			return pos.CaptureEnvelope{}, nil, err
		}
		ignored = append(ignored, lineIgnored...)
		lines[i] = pos.CaptureLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Note:        line.Note,
			Attributes:  lineAttrs,
		}
	}

	return pos.CaptureEnvelope{
		OrderUID:   r.OrderUID,
		SessionID:  r.SessionID,
		Cashier:    r.Cashier,
		PlacedAt:   r.PlacedAt,
		Total:      r.Total,
		Attributes: orderAttrs,
		Lines:      lines,
	}, ignored, nil
}

// PosOrderLineResponse represents a captured order line in API responses
type PosOrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	BrandID     *uuid.UUID      `json:"brand_id,omitempty"`
	BrandName   string          `json:"brand_name,omitempty"`
}

// PosOrderResponse represents a captured order in API responses
type PosOrderResponse struct {
	ID                  uuid.UUID              `json:"id"`
	ClientOrderUID      uuid.UUID              `json:"client_order_uid"`
	SessionID           uuid.UUID              `json:"session_id"`
	Cashier             string                 `json:"cashier"`
	PlacedAt            time.Time              `json:"placed_at"`
	CapturedAt          time.Time              `json:"captured_at"`
	Total               decimal.Decimal        `json:"total"`
	CustomOrderNumber   string                 `json:"custom_order_number"`
	Priority            string                 `json:"priority"`
	SpecialInstructions string                 `json:"special_instructions"`
	DeliveryDate        *time.Time             `json:"delivery_date"`
	Lines               []PosOrderLineResponse `json:"lines"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	Version             int                    `json:"version"`
}

// PosOrderListFilter represents filter options for captured order lists
type PosOrderListFilter struct {
	SessionID *uuid.UUID `form:"session_id"`
	Cashier   string     `form:"cashier"`
	Priority  string     `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Page      int        `form:"page" binding:"min=0"`
	PageSize  int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPosOrderResponse converts a domain PosOrder to PosOrderResponse
func ToPosOrderResponse(o *checkout.PosOrder) PosOrderResponse {
	lines := make([]PosOrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = PosOrderLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
			Note:        line.Note,
			BrandID:     line.BrandID,
			BrandName:   line.BrandName,
		}
	}

	return PosOrderResponse{
		ID:                  o.ID,
		ClientOrderUID:      o.ClientOrderUID,
		SessionID:           o.SessionID,
		Cashier:             o.Cashier,
		PlacedAt:            o.PlacedAt,
		CapturedAt:          o.CapturedAt,
		Total:               o.Total,
		CustomOrderNumber:   o.CustomOrderNumber,
		Priority:            o.Priority,
		SpecialInstructions: o.SpecialInstructions,
		DeliveryDate:        o.DeliveryDate,
		Lines:               lines,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		Version:             o.Version,
	}
}

// OpenPosSessionRequest represents a request to open a POS session
type OpenPosSessionRequest struct {
	Terminal string `json:"terminal" binding:"required,min=1,max=100"`
	Cashier  string `json:"cashier" binding:"required,min=1,max=100"`
}

// PosSessionResponse represents a POS session in API responses
type PosSessionResponse struct {
	ID       uuid.UUID  `json:"id"`
	Terminal string     `json:"terminal"`
	Cashier  string     `json:"cashier"`
	Status   string     `json:"status"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

// ToPosSessionResponse converts a domain PosSession to PosSessionResponse
func ToPosSessionResponse(s *checkout.PosSession) PosSessionResponse {
	return PosSessionResponse{
		ID:       s.ID,
		Terminal: s.Terminal,
		Cashier:  s.Cashier,
		Status:   string(s.Status),
		OpenedAt: s.OpenedAt,
		ClosedAt: s.ClosedAt,
	}
}
