package query_test

import (
	"errors"
	"testing"

	"github.com/sergio11/art-collectibles-marketplace/internal/admin"
	"github.com/sergio11/art-collectibles-marketplace/internal/archive"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/ledger"
	"github.com/sergio11/art-collectibles-marketplace/internal/query"
	"github.com/sergio11/art-collectibles-marketplace/internal/treasury"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	custodian  = entity.Identity("marketplace")
	listingFee = uint64(0)
)

type fakeRegistry struct {
	owners map[uint64]entity.Identity
}

func (f *fakeRegistry) TransferCustody(assetId uint64, from entity.Identity, to entity.Identity) error {
	if f.owners[assetId] != from {
		return errors.New("from does not hold the asset")
	}

	f.owners[assetId] = to

	return nil
}

func (f *fakeRegistry) OwnerOf(assetId uint64) (entity.Identity, error) {
	return f.owners[assetId], nil
}

func (f *fakeRegistry) CreatorOf(assetId uint64) (entity.Identity, error) {
	return "carol", nil
}

func (f *fakeRegistry) RoyaltyOf(assetId uint64) (uint, error) {
	return 0, nil
}

type sinkTransferor struct{}

func (sinkTransferor) Transfer(to entity.Identity, amount uint64) error {
	return nil
}

// populatedIndex builds an index over three sellers with a mix of active,
// canceled and sold listings.
func populatedIndex(t *testing.T) query.Index {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{
		1: "alice", 2: "alice", 3: "bob", 4: "dave",
	}}
	historyArchive := archive.New(nil)
	marketLedger := ledger.New(
		registry,
		treasury.NewEngine(sinkTransferor{}),
		admin.New("admin", "http://registry", listingFee),
		historyArchive,
		custodian,
	)

	for assetId, seller := range map[uint64]entity.Identity{1: "alice", 2: "alice", 3: "bob", 4: "dave"} {
		_, err := marketLedger.Create(assetId, assetId*10, seller, listingFee)
		require.NoError(t, err)
	}

	require.NoError(t, marketLedger.Cancel(2, "alice"))
	require.NoError(t, marketLedger.Complete(3, "eve", 30))

	return query.NewIndex(marketLedger, historyArchive)
}

func TestAvailableReturnsActiveOrderedByListingId(t *testing.T) {
	index := populatedIndex(t)

	available := index.Available()

	require.Len(t, available, 2)
	assert.Less(t, available[0].ListingId, available[1].ListingId)
	for _, listing := range available {
		assert.False(t, listing.Terminal())
	}
}

func TestBySellerSpansActiveAndHistory(t *testing.T) {
	index := populatedIndex(t)

	alice := index.BySeller("alice")
	require.Len(t, alice, 2)

	bob := index.BySeller("bob")
	require.Len(t, bob, 1)
	assert.True(t, bob[0].Sold)

	assert.Empty(t, index.BySeller("eve"))
}

func TestByOwnerMatchesTerminalRecordsOnly(t *testing.T) {
	index := populatedIndex(t)

	// eve bought asset 3, alice took back asset 2. Active listings have no
	// owner of record yet.
	eve := index.ByOwner("eve")
	require.Len(t, eve, 1)
	assert.Equal(t, uint64(3), eve[0].AssetId)

	alice := index.ByOwner("alice")
	require.Len(t, alice, 1)
	assert.True(t, alice[0].Canceled)

	assert.Empty(t, index.ByOwner("dave"))
}

func TestHistoryListsTerminalRecords(t *testing.T) {
	index := populatedIndex(t)

	history := index.History()

	require.Len(t, history, 2)
	for _, listing := range history {
		assert.True(t, listing.Terminal())
	}
}
