package pos

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle state of a terminal order
type OrderStatus string

const (
	// OrderStatusOpen is the editable cart state
	OrderStatusOpen OrderStatus = "OPEN"
	// OrderStatusLocked is entered when payment starts; lines freeze but
	// custom attributes stay writable until capture
	OrderStatusLocked OrderStatus = "LOCKED"
	// OrderStatusCaptured means the backend accepted the capture envelope
	OrderStatusCaptured OrderStatus = "CAPTURED"
	// OrderStatusReprintSource marks an order rehydrated from an export
	// payload purely to drive a reprint
	OrderStatusReprintSource OrderStatus = "REPRINT_SOURCE"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusLocked, OrderStatusCaptured, OrderStatusReprintSource:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusOpen:
		return target == OrderStatusLocked
	case OrderStatusLocked:
		return target == OrderStatusCaptured
	case OrderStatusCaptured:
		return target == OrderStatusReprintSource
	case OrderStatusReprintSource:
		return false // Terminal state
	}
	return false
}

// AttributesWritable reports whether custom attributes may still change
func (s OrderStatus) AttributesWritable() bool {
	return s == OrderStatusOpen || s == OrderStatusLocked
}

// OrderLine is one scanned item on a terminal order. Product display
// fields and the brand reference are snapshotted at scan time so the
// line stays stable even if the catalog changes mid-session
type OrderLine struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    valueobject.Quantity
	UnitPrice   valueobject.Money
	Note        string
	Brand       BrandRef
	attrs       attribute.Set
}

// Subtotal returns quantity times unit price for the line
func (l OrderLine) Subtotal() valueobject.Money {
	return l.UnitPrice.Multiply(l.Quantity.Amount())
}

// AttributeSet builds the line's full declared attribute set: every
// product registry key with its current-or-default value. Reference
// kinds are sourced from the normalized brand so the set and the Brand
// field cannot drift apart
func (l OrderLine) AttributeSet(reg *attribute.Registry) attribute.Set {
	out := attribute.NewSet()
	for _, spec := range reg.DeclaredAttributes(attribute.KindProduct) {
		if spec.Kind == attribute.ValueRef {
			if id, ok := l.Brand.ID(); ok {
				out.Put(spec.Key, attribute.Ref(id))
			} else {
				out.Put(spec.Key, attribute.NullRef())
			}
			continue
		}
		if v, ok := l.attrs.Get(spec.Key); ok {
			out.Put(spec.Key, v)
		} else {
			out.Put(spec.Key, spec.Default)
		}
	}
	return out
}

// Order is the terminal-resident order aggregate. It lives in session
// memory until capture; persistence happens on the backend when the
// capture envelope is applied
type Order struct {
	shared.BaseAggregateRoot
	SessionID  uuid.UUID
	Cashier    string
	Status     OrderStatus
	Lines      []OrderLine
	LockedAt   *time.Time
	CapturedAt *time.Time

	registry *attribute.Registry
	attrs    attribute.Set
}

// NewOrder creates a new open order for a session. The aggregate id is
// the client order uid: it is generated once here and reused across
// capture retries so the backend can deduplicate
func NewOrder(sessionID uuid.UUID, cashier string, registry *attribute.Registry) (*Order, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if registry == nil {
		return nil, shared.NewDomainError("INVALID_REGISTRY", "Attribute registry is required")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		Cashier:           cashier,
		Status:            OrderStatusOpen,
		Lines:             make([]OrderLine, 0),
		registry:          registry,
		attrs:             attribute.NewSet(),
	}

	order.AddDomainEvent(NewOrderOpenedEvent(order))

	return order, nil
}

// AddLine appends a scanned product to the order. Allowed only while OPEN.
// The product's display fields, price, brand reference, and scalar custom
// attributes are copied onto the line
func (o *Order) AddLine(product ProductRecord, quantity valueobject.Quantity, note string) (*OrderLine, error) {
	if o.Status != OrderStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add lines to a %s order", o.Status))
	}
	if product.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if product.Name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	line := OrderLine{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		Note:        note,
		Brand:       product.Brand,
		attrs:       product.Attributes,
	}

	o.Lines = append(o.Lines, line)
	o.UpdatedAt = time.Now()

	return &o.Lines[len(o.Lines)-1], nil
}

// RemoveLine removes a line from the order. Allowed only while OPEN
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove lines from a %s order", o.Status))
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// SetAttribute writes one declared custom attribute. Allowed while OPEN
// or LOCKED so late edits during payment still land. Keys outside the
// order registry are rejected, as are values of the wrong kind
func (o *Order) SetAttribute(key string, value attribute.Value) error {
	if !o.Status.AttributesWritable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot set attributes on a %s order", o.Status))
	}

	spec, ok := o.registry.Lookup(attribute.KindOrder, key)
	if !ok {
		return shared.NewDomainError("UNKNOWN_ATTRIBUTE", fmt.Sprintf("Attribute %q is not declared for orders", key))
	}
	if value.Kind() != spec.Kind {
		return shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", fmt.Sprintf("Attribute %q expects %s, got %s", key, spec.Kind, value.Kind()))
	}
	if key == attribute.KeyPriority {
		if s, _ := value.StringVal(); !attribute.IsValidPriority(s) {
			return shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", fmt.Sprintf("Priority %q is not one of the known levels", s))
		}
	}

	o.attrs.Put(key, value)
	o.UpdatedAt = time.Now()

	return nil
}

// Attribute reads one declared custom attribute, falling back to the
// registry default when the order never set it. Unknown keys are the
// only error case; absence is not
func (o *Order) Attribute(key string) (attribute.Value, error) {
	spec, ok := o.registry.Lookup(attribute.KindOrder, key)
	if !ok {
		return attribute.Value{}, shared.NewDomainError("UNKNOWN_ATTRIBUTE", fmt.Sprintf("Attribute %q is not declared for orders", key))
	}
	if v, ok := o.attrs.Get(key); ok {
		return v, nil
	}
	return spec.Default, nil
}

// Lock freezes the order for payment, transitioning OPEN to LOCKED.
// Requires at least one line
func (o *Order) Lock() error {
	if !o.Status.CanTransitionTo(OrderStatusLocked) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot lock order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot lock order without lines")
	}

	now := time.Now()
	o.Status = OrderStatusLocked
	o.LockedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderLockedEvent(o))

	return nil
}

// MarkCaptured records that the backend accepted the capture envelope,
// transitioning LOCKED to CAPTURED
func (o *Order) MarkCaptured() error {
	if !o.Status.CanTransitionTo(OrderStatusCaptured) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order captured in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCaptured
	o.CapturedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCapturedEvent(o))

	return nil
}

// MarkReprintSource tags a captured order as the source of a reprint
func (o *Order) MarkReprintSource() error {
	if !o.Status.CanTransitionTo(OrderStatusReprintSource) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reprint order in %s status", o.Status))
	}

	o.Status = OrderStatusReprintSource
	o.UpdatedAt = time.Now()

	return nil
}

// Total returns the sum of all line subtotals
func (o *Order) Total() valueobject.Money {
	total := valueobject.ZeroUSD()
	for _, line := range o.Lines {
		total = total.MustAdd(line.Subtotal())
	}
	return total
}

// LineCount returns the number of lines on the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// IsOpen returns true if the order is still editable
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}

// IsLocked returns true if the order is frozen for payment
func (o *Order) IsLocked() bool {
	return o.Status == OrderStatusLocked
}

// IsCaptured returns true if the backend accepted the order
func (o *Order) IsCaptured() bool {
	return o.Status == OrderStatusCaptured
}

// CaptureEnvelope serializes the order for submission. The envelope is a
// pure projection of aggregate state: it carries every declared order
// attribute with its current-or-default value and never consults the
// catalog store, so building it twice yields the same payload
func (o *Order) CaptureEnvelope() CaptureEnvelope {
	attrs := attribute.NewSet()
	for _, spec := range o.registry.DeclaredAttributes(attribute.KindOrder) {
		if v, ok := o.attrs.Get(spec.Key); ok {
			attrs.Put(spec.Key, v)
		} else {
			attrs.Put(spec.Key, spec.Default)
		}
	}

	placedAt := o.CreatedAt
	if o.LockedAt != nil {
		placedAt = *o.LockedAt
	}

	lines := make([]CaptureLine, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = CaptureLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Note:        line.Note,
			Attributes:  line.AttributeSet(o.registry),
		}
	}

	return CaptureEnvelope{
		OrderUID:   o.ID,
		SessionID:  o.SessionID,
		Cashier:    o.Cashier,
		PlacedAt:   placedAt,
		Total:      o.Total(),
		Attributes: attrs,
		Lines:      lines,
	}
}

// PrintEnvelope serializes the order for receipt formatting. It extends
// the capture projection with each line's brand resolved against the
// session catalog store: a known brand becomes an (id, name) pair, an
// unknown one stays an id-only stub. Resolution failures never error
func (o *Order) PrintEnvelope(store *CatalogStore) PrintEnvelope {
	capture := o.CaptureEnvelope()

	lines := make([]PrintLine, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = PrintLine{
			ProductID:   capture.Lines[i].ProductID,
			ProductName: capture.Lines[i].ProductName,
			Quantity:    capture.Lines[i].Quantity,
			UnitPrice:   capture.Lines[i].UnitPrice,
			Note:        capture.Lines[i].Note,
			Brand:       resolveBrand(store, line.Brand),
			Attributes:  capture.Lines[i].Attributes,
		}
	}

	return PrintEnvelope{
		OrderUID:   capture.OrderUID,
		SessionID:  capture.SessionID,
		Cashier:    capture.Cashier,
		PlacedAt:   capture.PlacedAt,
		Total:      capture.Total,
		Attributes: capture.Attributes,
		Lines:      lines,
	}
}

// resolveBrand upgrades an unnamed reference to a named pair when the
// store knows the brand. Already named references pass through untouched
// and unresolvable ids stay as unnamed stubs
func resolveBrand(store *CatalogStore, ref BrandRef) BrandRef {
	if ref.IsZero() || ref.Named() {
		return ref
	}
	id, _ := ref.ID()
	if store != nil {
		if name, ok := store.BrandName(id); ok {
			return ref.WithName(name)
		}
	}
	return ref
}
