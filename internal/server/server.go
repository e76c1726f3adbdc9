package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sergio11/art-collectibles-marketplace/internal/entity"
	"github.com/sergio11/art-collectibles-marketplace/internal/ledger"
	"github.com/sergio11/art-collectibles-marketplace/internal/query"
	"go.uber.org/zap"
)

type Server struct {
	ledger *ledger.Ledger
	index  query.Index
}

func NewServer(ledger *ledger.Ledger, index query.Index) Server {
	return Server{ledger, index}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/stats", s.handleStats).Methods("GET")

	r.HandleFunc("/listings", s.handleAvailable).Methods("GET")
	r.HandleFunc("/listings", s.handleCreate).Methods("POST")
	r.HandleFunc("/listings/seller/{identity}", s.handleBySeller).Methods("GET")
	r.HandleFunc("/listings/owner/{identity}", s.handleByOwner).Methods("GET")
	r.HandleFunc("/listings/{assetId}/cancel", s.handleCancel).Methods("POST")
	r.HandleFunc("/listings/{assetId}/buy", s.handleBuy).Methods("POST")
	r.HandleFunc("/history", s.handleHistory).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "Art Collectibles Marketplace")
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJson(w, s.ledger.Stats())
}

func (s Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	writeJson(w, s.index.Available())
}

func (s Server) handleBySeller(w http.ResponseWriter, r *http.Request) {
	identity, _ := mux.Vars(r)["identity"]
	writeJson(w, s.index.BySeller(entity.Identity(identity)))
}

func (s Server) handleByOwner(w http.ResponseWriter, r *http.Request) {
	identity, _ := mux.Vars(r)["identity"]
	writeJson(w, s.index.ByOwner(entity.Identity(identity)))
}

func (s Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJson(w, s.index.History())
}

type createRequest struct {
	AssetId uint64 `json:"assetId"`
	Price   uint64 `json:"price"`
	Seller  string `json:"seller"`
	Fee     uint64 `json:"fee"`
}

type createResponse struct {
	ListingId uint64 `json:"listingId"`
}

func (s Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listingId, err := s.ledger.Create(req.AssetId, req.Price, entity.Identity(req.Seller), req.Fee)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJson(w, createResponse{ListingId: listingId})
}

type cancelRequest struct {
	Caller string `json:"caller"`
}

func (s Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	assetId, err := getAssetId(r)
	if err != nil {
		http.Error(w, "Invalid asset id", http.StatusBadRequest)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.ledger.Cancel(assetId, entity.Identity(req.Caller)); err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type buyRequest struct {
	Buyer  string `json:"buyer"`
	Amount uint64 `json:"amount"`
}

func (s Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	assetId, err := getAssetId(r)
	if err != nil {
		http.Error(w, "Invalid asset id", http.StatusBadRequest)
		return
	}

	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.ledger.Complete(assetId, entity.Identity(req.Buyer), req.Amount); err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func getAssetId(r *http.Request) (uint64, error) {
	assetId, ok := mux.Vars(r)["assetId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(assetId, 10, 64)
}

func writeJson(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to encode response")
	}
}

func writeLedgerError(w http.ResponseWriter, err error) {
	var external ledger.ExternalCallError
	if errors.As(err, &external) {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if errors.Is(err, ledger.ErrNotListed) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	http.Error(w, err.Error(), http.StatusUnprocessableEntity)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
