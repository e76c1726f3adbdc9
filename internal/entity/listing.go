package entity

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Listing represents one listing of one asset instance. While the listing is
// active the marketplace holds the asset in escrow (Custodian) and Owner is
// unset. Exactly one terminal flag is raised when the listing ends: the asset
// either sold to Owner or was withdrawn by Owner.
type Listing struct {
	ListingId uint64   `json:"listingId"`
	AssetId   uint64   `json:"assetId"`
	Creator   Identity `json:"creator"`
	Seller    Identity `json:"seller"`
	Owner     Identity `json:"owner"`
	Custodian Identity `json:"custodian"`
	Price     uint64   `json:"price"`
	Sold      bool     `json:"sold"`
	Canceled  bool     `json:"canceled"`
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.ListingId, l.AssetId)
}

func CreateListingSlug(listingId uint64, assetId uint64) string {
	return slug.Make(fmt.Sprintf("listing-%d-asset-%d", listingId, assetId))
}

func (l Listing) Terminal() bool {
	return l.Sold || l.Canceled
}
