package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("BrandUpdated")
	registry.Register(handler, "BrandUpdated")

	handlers := registry.GetHandlers("BrandUpdated")
	assert.Len(t, handlers, 1)
}

func TestHandlerRegistry_Register_MultipleTypes(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("BrandUpdated", "BrandDeleted")
	registry.Register(handler, "BrandUpdated", "BrandDeleted")

	assert.Len(t, registry.GetHandlers("BrandUpdated"), 1)
	assert.Len(t, registry.GetHandlers("BrandDeleted"), 1)
	assert.Len(t, registry.GetHandlers("ProductUpdated"), 0)
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()

	wildcard := newTestHandler()
	registry.Register(wildcard)

	// Wildcard handlers show up for every event type
	assert.Len(t, registry.GetHandlers("BrandUpdated"), 1)
	assert.Len(t, registry.GetHandlers("SomethingElse"), 1)
}

func TestHandlerRegistry_GetHandlers_CombinesTypeAndWildcard(t *testing.T) {
	registry := NewHandlerRegistry()

	typed := newTestHandler("ProductUpdated")
	wildcard := newTestHandler()
	registry.Register(typed, "ProductUpdated")
	registry.Register(wildcard)

	handlers := registry.GetHandlers("ProductUpdated")
	assert.Len(t, handlers, 2)

	// Other types only see the wildcard
	handlers = registry.GetHandlers("BrandUpdated")
	assert.Len(t, handlers, 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("BrandUpdated")
	registry.Register(handler, "BrandUpdated")
	assert.Len(t, registry.GetHandlers("BrandUpdated"), 1)

	registry.Unregister(handler)
	assert.Len(t, registry.GetHandlers("BrandUpdated"), 0)
}

func TestHandlerRegistry_Unregister_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()

	wildcard := newTestHandler()
	registry.Register(wildcard)
	assert.Len(t, registry.GetHandlers("BrandUpdated"), 1)

	registry.Unregister(wildcard)
	assert.Len(t, registry.GetHandlers("BrandUpdated"), 0)
}

func TestHandlerRegistry_Unregister_KeepsOthers(t *testing.T) {
	registry := NewHandlerRegistry()

	handler1 := newTestHandler("BrandUpdated")
	handler2 := newTestHandler("BrandUpdated")
	registry.Register(handler1, "BrandUpdated")
	registry.Register(handler2, "BrandUpdated")

	registry.Unregister(handler1)

	handlers := registry.GetHandlers("BrandUpdated")
	assert.Len(t, handlers, 1)
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()

	handler1 := newTestHandler("BrandUpdated", "BrandDeleted")
	handler2 := newTestHandler("ProductUpdated")
	wildcard := newTestHandler()

	// handler1 registered under two types must still be listed once
	registry.Register(handler1, "BrandUpdated", "BrandDeleted")
	registry.Register(handler2, "ProductUpdated")
	registry.Register(wildcard)

	all := registry.GetAllHandlers()
	assert.Len(t, all, 3)
}

func TestHandlerRegistry_GetAllHandlers_Empty(t *testing.T) {
	registry := NewHandlerRegistry()

	all := registry.GetAllHandlers()
	assert.Len(t, all, 0)
}
