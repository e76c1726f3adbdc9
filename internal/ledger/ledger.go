package ledger

import (
	"sort"
	"sync"

	"github.com/sergio11/art-collectibles-marketplace/internal/admin"
	"github.com/sergio11/art-collectibles-marketplace/internal/archive"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/event"
	"github.com/sergio11/art-collectibles-marketplace/internal/registry"
	"github.com/sergio11/art-collectibles-marketplace/internal/treasury"
	"go.uber.org/zap"
)

// Ledger owns the mapping from asset id to active listing and drives the
// listing lifecycle: create, cancel, complete. A single mutex serializes the
// mutating operations, so every transition commits atomically or not at all;
// external calls are made before any in-memory state is touched.
type Ledger struct {
	mtx sync.Mutex

	registry registry.Service
	payout   treasury.Engine
	admin    *admin.Config
	archive  *archive.Archive

	custodian entity.Identity

	active map[uint64]*entity.Listing
	listed map[uint64]bool

	nextListingId   uint64
	listingsCreated uint64
	soldCount       uint64
	canceledCount   uint64
}

type Stats struct {
	ListingsCreated uint64 `json:"listingsCreated"`
	Sold            uint64 `json:"sold"`
	Canceled        uint64 `json:"canceled"`
	Active          uint64 `json:"active"`
}

func New(
	registry registry.Service,
	payout treasury.Engine,
	adminConfig *admin.Config,
	archive *archive.Archive,
	custodian entity.Identity,
) *Ledger {
	return &Ledger{
		registry:  registry,
		payout:    payout,
		admin:     adminConfig,
		archive:   archive,
		custodian: custodian,
		active:    make(map[uint64]*entity.Listing),
		listed:    make(map[uint64]bool),
	}
}

// Create puts an asset up for sale. The lister must be the asset's current
// owner of record, the asset must not be listed, the price must be positive
// and the paid fee must match the configured listing fee exactly. On success
// the asset moves into the marketplace's custody and a fresh listing id is
// allocated, never to be reused.
func (l *Ledger) Create(assetId uint64, price uint64, lister entity.Identity, feePaid uint64) (uint64, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	owner, err := l.registry.OwnerOf(assetId)
	if err != nil {
		return 0, externalCall("OwnerOf", err)
	}
	if owner != lister {
		return 0, ErrNotOwner
	}

	if l.listed[assetId] {
		return 0, ErrAlreadyListed
	}

	if price == 0 {
		return 0, ErrInvalidPrice
	}

	if feePaid != l.admin.ListingFee() {
		return 0, ErrFeeMismatch
	}

	creator, err := l.registry.CreatorOf(assetId)
	if err != nil {
		return 0, externalCall("CreatorOf", err)
	}

	if err := l.registry.TransferCustody(assetId, lister, l.custodian); err != nil {
		return 0, externalCall("TransferCustody", err)
	}

	l.nextListingId++
	listing := &entity.Listing{
		ListingId: l.nextListingId,
		AssetId:   assetId,
		Creator:   creator,
		Seller:    lister,
		Custodian: l.custodian,
		Price:     price,
	}

	l.active[assetId] = listing
	l.listed[assetId] = true
	l.listingsCreated++

	zap.L().With(
		zap.Uint64("listingId", listing.ListingId),
		zap.Uint64("assetId", assetId),
		zap.String("seller", lister.String()),
		zap.Uint64("price", price),
	).Info("Marketplace listing")

	event.EmitListed(listing.ListingId, assetId, price)

	return listing.ListingId, nil
}

// Cancel withdraws an active listing and returns custody of the asset to the
// caller. Any caller may cancel a listed asset; the original contract never
// restricted this to the seller, and the behaviour is kept.
func (l *Ledger) Cancel(assetId uint64, caller entity.Identity) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	listing, ok := l.active[assetId]
	if !ok {
		return ErrNotListed
	}

	if err := l.registry.TransferCustody(assetId, l.custodian, caller); err != nil {
		return externalCall("TransferCustody", err)
	}

	listing.Owner = caller
	listing.Custodian = entity.NoIdentity
	listing.Canceled = true
	l.canceledCount++

	l.archive.Push(*listing)
	delete(l.active, assetId)
	delete(l.listed, assetId)

	zap.L().With(
		zap.Uint64("listingId", listing.ListingId),
		zap.Uint64("assetId", assetId),
		zap.String("caller", caller.String()),
	).Info("Marketplace delisting")

	event.EmitWithdrawn(assetId)

	return nil
}

// Complete sells an active listing to the buyer. The paid amount must match
// the listing price exactly. The creator/seller payout is performed and
// verified strictly before custody changes hands: if either payout leg fails
// the whole sale aborts with no state change.
func (l *Ledger) Complete(assetId uint64, buyer entity.Identity, amountPaid uint64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	owner, err := l.registry.OwnerOf(assetId)
	if err != nil {
		return externalCall("OwnerOf", err)
	}
	if owner == buyer {
		return ErrBuyerIsOwner
	}

	listing, ok := l.active[assetId]
	if !ok {
		return ErrNotListed
	}

	if amountPaid != listing.Price {
		return ErrAmountMismatch
	}

	royaltyPercent, err := l.registry.RoyaltyOf(assetId)
	if err != nil {
		return externalCall("RoyaltyOf", err)
	}

	royalty, remainder := l.payout.Split(amountPaid, royaltyPercent)
	if result := l.payout.Payout(listing.Creator, royalty, listing.Seller, remainder); !result.Ok() {
		return externalCall("Payout", result.Err())
	}

	if err := l.registry.TransferCustody(assetId, l.custodian, buyer); err != nil {
		return externalCall("TransferCustody", err)
	}

	listing.Owner = buyer
	listing.Custodian = entity.NoIdentity
	listing.Sold = true
	l.soldCount++

	l.archive.Push(*listing)
	delete(l.active, assetId)
	delete(l.listed, assetId)

	zap.L().With(
		zap.Uint64("listingId", listing.ListingId),
		zap.Uint64("assetId", assetId),
		zap.String("buyer", buyer.String()),
		zap.Uint64("amount", amountPaid),
		zap.Uint64("royalty", royalty),
	).Info("Marketplace sale")

	event.EmitSold(assetId, buyer, amountPaid)

	return nil
}

// ActiveListings returns a consistent snapshot of the currently active
// listings.
func (l *Ledger) ActiveListings() []entity.Listing {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.activeSnapshot()
}

// Snapshot returns the active listings together with the archived history,
// taken under the ledger lock so the two views are mutually consistent.
func (l *Ledger) Snapshot() ([]entity.Listing, []entity.Listing) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.activeSnapshot(), l.archive.All()
}

func (l *Ledger) Stats() Stats {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return Stats{
		ListingsCreated: l.listingsCreated,
		Sold:            l.soldCount,
		Canceled:        l.canceledCount,
		Active:          l.listingsCreated - l.soldCount - l.canceledCount,
	}
}

func (l *Ledger) activeSnapshot() []entity.Listing {
	listings := make([]entity.Listing, 0, len(l.active))
	for _, listing := range l.active {
		listings = append(listings, *listing)
	}

	sort.Slice(listings, func(a, b int) bool {
		return listings[a].ListingId < listings[b].ListingId
	})

	return listings
}
