package archive

import (
	"sync"

	"github.com/sergio11/art-collectibles-marketplace/internal/audit"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"go.uber.org/zap"
)

// Archive is the append-only log of terminal listing records. Insertion order
// is the chronological order of terminal transitions. Entries are snapshots:
// later operations never change them.
type Archive struct {
	mtx     sync.RWMutex
	records []entity.Listing
	audit   audit.Index
}

// New creates an archive. The audit index is optional; when present every
// archived record is mirrored to it for external audit queries.
func New(audit audit.Index) *Archive {
	return &Archive{records: make([]entity.Listing, 0), audit: audit}
}

func (a *Archive) Push(record entity.Listing) {
	a.mtx.Lock()
	a.records = append(a.records, record)
	a.mtx.Unlock()

	zap.L().With(
		zap.Uint64("listingId", record.ListingId),
		zap.Uint64("assetId", record.AssetId),
		zap.Bool("sold", record.Sold),
		zap.Bool("canceled", record.Canceled),
	).Debug("Archive: Terminal record")

	// The mirror is an observer: Push is called with the ledger lock held, so
	// the Elasticsearch round-trip must never block the caller.
	if a.audit != nil {
		go a.audit.IndexListing(record)
	}
}

// All returns the full history in insertion order. The result is a copy so
// callers cannot mutate archived records.
func (a *Archive) All() []entity.Listing {
	a.mtx.RLock()
	defer a.mtx.RUnlock()

	records := make([]entity.Listing, len(a.records))
	copy(records, a.records)

	return records
}

func (a *Archive) Size() int {
	a.mtx.RLock()
	defer a.mtx.RUnlock()

	return len(a.records)
}
