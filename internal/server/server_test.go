package server_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sergio11/art-collectibles-marketplace/internal/admin"
	"github.com/sergio11/art-collectibles-marketplace/internal/archive"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/ledger"
	"github.com/sergio11/art-collectibles-marketplace/internal/query"
	"github.com/sergio11/art-collectibles-marketplace/internal/server"
	"github.com/sergio11/art-collectibles-marketplace/internal/treasury"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const custodian = entity.Identity("marketplace")

type fakeRegistry struct {
	owners      map[uint64]entity.Identity
	transferErr error
}

func (f *fakeRegistry) TransferCustody(assetId uint64, from entity.Identity, to entity.Identity) error {
	if f.transferErr != nil {
		return f.transferErr
	}
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
	return 10, nil
}

type sinkTransferor struct{}

func (sinkTransferor) Transfer(to entity.Identity, amount uint64) error {
	return nil
}

func newTestServer(registry *fakeRegistry) *httptest.Server {
	historyArchive := archive.New(nil)
	marketLedger := ledger.New(
		registry,
		treasury.NewEngine(sinkTransferor{}),
		admin.New("admin", "http://registry", 0),
		historyArchive,
		custodian,
	)
	srv := server.NewServer(marketLedger, query.NewIndex(marketLedger, historyArchive))

	return httptest.NewServer(srv.Router())
}

func postJson(t *testing.T, url string, body string) *http.Response {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)

	return resp
}

func TestCreateListing(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice"}}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"alice","fee":0}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ListingId uint64 `json:"listingId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, uint64(1), created.ListingId)
}

func TestCreateListingRejectsNonOwner(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice"}}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"mallory","fee":0}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateListingReportsRegistryOutage(t *testing.T) {
	registry := &fakeRegistry{
		owners:      map[uint64]entity.Identity{7: "alice"},
		transferErr: errors.New("registry unavailable"),
	}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"alice","fee":0}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCancelListing(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice"}}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"alice","fee":0}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJson(t, ts.URL+"/listings/7/cancel", `{"caller":"alice"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCancelUnlistedAssetReturnsNotFound(t *testing.T) {
	ts := newTestServer(&fakeRegistry{owners: map[uint64]entity.Identity{}})
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings/42/cancel", `{"caller":"alice"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBuyListing(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice"}}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"alice","fee":0}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJson(t, ts.URL+"/listings/7/buy", `{"buyer":"bob","amount":100}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, entity.Identity("bob"), registry.owners[7])

	historyResp, err := http.Get(ts.URL + "/history")
	require.NoError(t, err)
	defer historyResp.Body.Close()

	var history []entity.Listing
	require.NoError(t, json.NewDecoder(historyResp.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.True(t, history[0].Sold)
}

func TestBuyRejectsWrongAmount(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice"}}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"alice","fee":0}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJson(t, ts.URL+"/listings/7/buy", `{"buyer":"bob","amount":50}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestListingsAndSellerViews(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice", 8: "bob"}}
	ts := newTestServer(registry)
	defer ts.Close()

	for _, body := range []string{
		`{"assetId":7,"price":100,"seller":"alice","fee":0}`,
		`{"assetId":8,"price":200,"seller":"bob","fee":0}`,
	} {
		resp := postJson(t, ts.URL+"/listings", body)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/listings")
	require.NoError(t, err)
	defer resp.Body.Close()

	var available []entity.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&available))
	assert.Len(t, available, 2)

	sellerResp, err := http.Get(ts.URL + "/listings/seller/alice")
	require.NoError(t, err)
	defer sellerResp.Body.Close()

	var byAlice []entity.Listing
	require.NoError(t, json.NewDecoder(sellerResp.Body).Decode(&byAlice))
	require.Len(t, byAlice, 1)
	assert.Equal(t, uint64(7), byAlice[0].AssetId)
}

func TestStatsEndpoint(t *testing.T) {
	registry := &fakeRegistry{owners: map[uint64]entity.Identity{7: "alice"}}
	ts := newTestServer(registry)
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings", `{"assetId":7,"price":100,"seller":"alice","fee":0}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	statsResp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()

	var stats ledger.Stats
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.Equal(t, ledger.Stats{ListingsCreated: 1, Active: 1}, stats)
}

func TestHealthAndNotFound(t *testing.T) {
	ts := newTestServer(&fakeRegistry{owners: map[uint64]entity.Identity{}})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/no-such-page")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidAssetIdReturnsBadRequest(t *testing.T) {
	ts := newTestServer(&fakeRegistry{owners: map[uint64]entity.Identity{}})
	defer ts.Close()

	resp := postJson(t, ts.URL+"/listings/notanumber/cancel", `{"caller":"alice"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
