package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// RestockListener turns StockReceived events from suppliers into stock entries.
type RestockListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewRestockListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *RestockListener {
	return &RestockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *RestockListener) Start(ctx context.Context) {
	l.logger.Info("Starting restock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping restock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *RestockListener) processMessage(ctx context.Context, value []byte) {
	var event events.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != events.TypeStockReceived {
		return
	}

	var payload events.StockReceivedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		l.logger.Error("Failed to unmarshal StockReceived payload", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}

	note := payload.Note
	if note == "" {
		note = "Reposição " + event.EventID
	}

	_, err := l.uc.RecordEntry(ctx, &dto.MovementInput{
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
		Note:      note,
	})
	if err != nil {
		l.logger.Error("Failed to record restock entry",
			zap.String("event_id", event.EventID),
			zap.String("product_id", payload.ProductID),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("Restock recorded", zap.String("product_id", payload.ProductID), zap.Int("quantity", payload.Quantity))
}
