package event

import (
	uuid "github.com/nu7hatch/gouuid"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

var listeners = make([]*Listener, 0)

type Listener struct {
	eventType Type
	channel   chan interface{}
}

func AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := Listener{
		eventType: eventType,
		channel:   make(chan interface{}),
	}

	listeners = append(listeners, &listener)

	go func() {
		for {
			msg := <-listener.channel
			callback(msg)
		}
	}()
}

func EmitListed(listingId uint64, assetId uint64, price uint64) {
	emit(ListedEvent, Listed{
		NotificationId: notificationId(),
		ListingId:      listingId,
		AssetId:        assetId,
		Price:          price,
	})
}

func EmitWithdrawn(assetId uint64) {
	emit(WithdrawnEvent, Withdrawn{
		NotificationId: notificationId(),
		AssetId:        assetId,
	})
}

func EmitSold(assetId uint64, buyer entity.Identity, amount uint64) {
	emit(SoldEvent, Sold{
		NotificationId: notificationId(),
		AssetId:        assetId,
		Buyer:          buyer,
		Amount:         amount,
	})
}

func emit(eventType Type, msg interface{}) {
	if len(listeners) == 0 {
		zap.L().Debug("No event listeners available")
	}
	for _, listener := range listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			go func(handler chan interface{}) {
				handler <- msg
			}(listener.channel)
		}
	}
}

func notificationId() string {
	u, err := uuid.NewV4()
	if err != nil {
		return ""
	}

	return u.String()
}
