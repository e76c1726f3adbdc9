package archive_test

import (
	"testing"
	"time"

	"github.com/sergio11/art-collectibles-marketplace/internal/archive"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stuckIndex blocks every IndexListing call until released.
type stuckIndex struct {
	release chan struct{}
	indexed chan entity.Listing
}

func newStuckIndex() *stuckIndex {
	return &stuckIndex{
		release: make(chan struct{}),
		indexed: make(chan entity.Listing, 8),
	}
}

func (s *stuckIndex) InstallMappings() {}

func (s *stuckIndex) IndexListing(listing entity.Listing) {
	<-s.release
	s.indexed <- listing
}

func terminalListing(listingId uint64) entity.Listing {
	return entity.Listing{
		ListingId: listingId,
		AssetId:   listingId + 100,
		Creator:   "carol",
		Seller:    "alice",
		Owner:     "bob",
		Price:     100,
		Sold:      true,
	}
}

func TestPushPreservesOrder(t *testing.T) {
	historyArchive := archive.New(nil)

	for listingId := uint64(1); listingId <= 3; listingId++ {
		historyArchive.Push(terminalListing(listingId))
	}

	records := historyArchive.All()
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, uint64(i+1), record.ListingId)
	}
	assert.Equal(t, 3, historyArchive.Size())
}

func TestAllReturnsDefensiveCopy(t *testing.T) {
	historyArchive := archive.New(nil)
	historyArchive.Push(terminalListing(1))

	records := historyArchive.All()
	records[0].Seller = "tampered"

	fresh := historyArchive.All()
	assert.Equal(t, entity.Identity("alice"), fresh[0].Seller)
}

func TestPushDoesNotBlockOnSlowMirror(t *testing.T) {
	mirror := newStuckIndex()
	historyArchive := archive.New(mirror)

	done := make(chan struct{})
	go func() {
		historyArchive.Push(terminalListing(1))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("push stalled behind the audit mirror")
	}

	// Readers see the record while the mirror is still stuck.
	require.Len(t, historyArchive.All(), 1)

	close(mirror.release)

	select {
	case record := <-mirror.indexed:
		assert.Equal(t, uint64(1), record.ListingId)
	case <-time.After(2 * time.Second):
		t.Fatal("record never reached the audit mirror")
	}
}

func TestEmptyArchive(t *testing.T) {
	historyArchive := archive.New(nil)

	assert.Empty(t, historyArchive.All())
	assert.Equal(t, 0, historyArchive.Size())
}
