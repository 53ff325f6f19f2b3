package ws

import (
	"github.com/goccy/go-json"
)

// Event is the wire envelope for every broadcast message.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event types broadcast by the server.
const (
	EventItemAdded    = "item:added"
	EventItemUpdated  = "item:updated"
	EventItemDeleted  = "item:deleted"
	EventUnitCreated  = "unit:created"
	EventUnitUpdated  = "unit:updated"
	EventUnitDeleted  = "unit:deleted"

	EventStoreCreated      = "store:created"
	EventStoreUpdated      = "store:updated"
	EventStoreDeleted      = "store:deleted"
	EventDepartmentCreated = "department:created"
	EventDepartmentUpdated = "department:updated"
	EventDepartmentDeleted = "department:deleted"
	EventProductCreated    = "product:created"
	EventProductUpdated    = "product:updated"
	EventProductDeleted    = "product:deleted"

	EventUserJoined = "user:joined"
	EventUserLeft   = "user:left"

	// EventAny subscribes to every event regardless of type.
	EventAny = "*"
)

// ItemEvent is the payload of the item:* events. Deleted events carry only
// the id.
type ItemEvent struct {
	ID           string  `json:"id"`
	Name         string  `json:"name,omitempty"`
	Menge        *string `json:"menge,omitempty"`
	StoreID      *int    `json:"store_id,omitempty"`
	ProductID    *int    `json:"product_id,omitempty"`
	UserID       *int    `json:"user_id,omitempty"`
	ShoppingDate *string `json:"shopping_date,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
}

// UnitEvent is the payload of the unit:* events.
type UnitEvent struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// CatalogEvent is the payload of the store:*, department:*, and product:*
// events. Deleted events carry only the id.
type CatalogEvent struct {
	ID      int `json:"id"`
	StoreID int `json:"store_id,omitempty"`
}

// PresenceEvent is the payload of user:joined and user:left.
type PresenceEvent struct {
	UserID int `json:"userId"`
}
