package messenger

import (
	"encoding/json"

	"github.com/sergio11/art-collectibles-marketplace/internal/event"
	"go.uber.org/zap"
)

// Relay forwards marketplace notifications to the queue so external
// consumers can react to listing lifecycle changes.
type Relay struct {
	messenger MessageService
}

func NewRelay(messenger MessageService) Relay {
	return Relay{messenger}
}

func (r Relay) PublishListed(el interface{}) {
	listed, ok := el.(event.Listed)
	if !ok {
		zap.L().Warn("Relay: Unexpected listed payload")
		return
	}

	r.publish(ListingListed, listed)
}

func (r Relay) PublishWithdrawn(el interface{}) {
	withdrawn, ok := el.(event.Withdrawn)
	if !ok {
		zap.L().Warn("Relay: Unexpected withdrawn payload")
		return
	}

	r.publish(ListingWithdrawn, withdrawn)
}

func (r Relay) PublishSold(el interface{}) {
	sold, ok := el.(event.Sold)
	if !ok {
		zap.L().Warn("Relay: Unexpected sold payload")
		return
	}

	r.publish(ListingSold, sold)
}

func (r Relay) publish(item Item, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("Relay: Failed to marshal notification")
		return
	}

	if err := r.messenger.SendMessage(item, body); err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("Relay: Failed to publish notification")
	}
}
