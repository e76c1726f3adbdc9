package event

import (
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
)

type Type string

const (
	ListedEvent    Type = "ListedEvent"
	WithdrawnEvent Type = "WithdrawnEvent"
	SoldEvent      Type = "SoldEvent"
)

// Listed is emitted once for every successfully created listing.
type Listed struct {
	NotificationId string `json:"notificationId"`
	ListingId      uint64 `json:"listingId"`
	AssetId        uint64 `json:"assetId"`
	Price          uint64 `json:"price"`
}

// Withdrawn is emitted once for every canceled listing.
type Withdrawn struct {
	NotificationId string `json:"notificationId"`
	AssetId        uint64 `json:"assetId"`
}

// Sold is emitted once for every completed sale.
type Sold struct {
	NotificationId string          `json:"notificationId"`
	AssetId        uint64          `json:"assetId"`
	Buyer          entity.Identity `json:"buyer"`
	Amount         uint64          `json:"amount"`
}
