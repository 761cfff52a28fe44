package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSaleRegistered = "SaleRegistered"
	TypeLowStock       = "LowStock"
	TypeStockReceived  = "StockReceived"
)

// Event is the envelope written to and read from the events topics.
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEvent(eventType string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

type SaleRegisteredPayload struct {
	SaleID  string            `json:"sale_id"`
	ActorID string            `json:"actor_id"`
	Total   string            `json:"total"`
	Items   []SaleItemPayload `json:"items"`
}

type SaleItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type LowStockPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

type StockReceivedPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}
