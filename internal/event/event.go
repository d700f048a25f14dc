package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Common event types
const (
	ItemGenerated     Type = "item.generated"
	ItemCrafted       Type = "item.crafted"
	ItemPurchased     Type = "item.purchased"
	ItemSold          Type = "item.sold"
	ItemUpgraded      Type = "item.upgraded"
	ItemUsed          Type = "item.used"
	ResourceHarvested Type = "resource.harvested"
	ShopRestocked     Type = "shop.restocked"
	SessionCreated    Type = "session.created"
	SessionDeleted    Type = "session.deleted"
)

// Typed event payloads for type safety

// ItemPayloadV1 is the typed payload for item lifecycle events
type ItemPayloadV1 struct {
	SessionID   string `json:"session_id"`
	TemplateKey string `json:"template_key"`
	Rarity      string `json:"rarity"`
	Quality     string `json:"quality,omitempty"`
	Credits     int    `json:"credits,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// HarvestPayloadV1 is the typed payload for harvest events
type HarvestPayloadV1 struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id"`
	Resource  string `json:"resource"`
	Rarity    string `json:"rarity"`
	Amount    int    `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// ShopRestockedPayloadV1 is the typed payload for shop restock events
type ShopRestockedPayloadV1 struct {
	SessionID string `json:"session_id"`
	ShopType  string `json:"shop_type"`
	ItemCount int    `json:"item_count"`
	Timestamp int64  `json:"timestamp"`
}

// SessionPayloadV1 is the typed payload for session lifecycle events
type SessionPayloadV1 struct {
	SessionID string `json:"session_id"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewItemEvent creates an item lifecycle event with type-safe payload
func NewItemEvent(eventType Type, sessionID, templateKey, rarity string, credits int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: ItemPayloadV1{
			SessionID:   sessionID,
			TemplateKey: templateKey,
			Rarity:      rarity,
			Credits:     credits,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewHarvestEvent creates a harvest event with type-safe payload
func NewHarvestEvent(sessionID, nodeID, resource, rarity string, amount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ResourceHarvested,
		Payload: HarvestPayloadV1{
			SessionID: sessionID,
			NodeID:    nodeID,
			Resource:  resource,
			Rarity:    rarity,
			Amount:    amount,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewShopRestockedEvent creates a shop restock event
func NewShopRestockedEvent(sessionID, shopType string, itemCount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ShopRestocked,
		Payload: ShopRestockedPayloadV1{
			SessionID: sessionID,
			ShopType:  shopType,
			ItemCount: itemCount,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewSessionEvent creates a session lifecycle event
func NewSessionEvent(eventType Type, sessionID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: SessionPayloadV1{
			SessionID: sessionID,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// in subscription order; a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
