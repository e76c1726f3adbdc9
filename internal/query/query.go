package query

import (
	"github.com/sergio11/art-collectibles-marketplace/internal/archive"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/ledger"
)

// AddressField selects which payable-identity field of a listing a scan
// compares against. The seller and owner scans are the same walk over every
// listing id ever issued, only the compared field differs.
type AddressField int

const (
	SellerField AddressField = iota
	OwnerField
)

func (f AddressField) of(listing entity.Listing) entity.Identity {
	if f == OwnerField {
		return listing.Owner
	}

	return listing.Seller
}

// Index provides the read-only views over the ledger and the archive. Reads
// never mutate state and always observe a consistent snapshot.
type Index struct {
	ledger  *ledger.Ledger
	archive *archive.Archive
}

func NewIndex(ledger *ledger.Ledger, archive *archive.Archive) Index {
	return Index{ledger, archive}
}

// Available returns the currently listed records, ordered by listing id.
func (i Index) Available() []entity.Listing {
	return i.ledger.ActiveListings()
}

func (i Index) BySeller(identity entity.Identity) []entity.Listing {
	return i.byAddressField(SellerField, identity)
}

func (i Index) ByOwner(identity entity.Identity) []entity.Listing {
	return i.byAddressField(OwnerField, identity)
}

// History returns every terminal record in chronological terminal order.
func (i Index) History() []entity.Listing {
	return i.archive.All()
}

func (i Index) byAddressField(field AddressField, identity entity.Identity) []entity.Listing {
	active, history := i.ledger.Snapshot()

	selected := make([]entity.Listing, 0)
	for _, listing := range history {
		if field.of(listing) == identity {
			selected = append(selected, listing)
		}
	}
	for _, listing := range active {
		if field.of(listing) == identity {
			selected = append(selected, listing)
		}
	}

	return selected
}
