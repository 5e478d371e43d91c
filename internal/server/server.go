package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/monochain/monochain/internal/chain"
)

// Server exposes the ledger over a small REST API:
//
//	GET  /               status document
//	GET  /blocks         full chain (explorer view)
//	GET  /blocks/{index} one block
//	POST /blocks         mine and append a block, body {"data": "..."}
//	POST /mine           preview-mine a block without appending it
type Server struct {
	ledger *chain.Ledger
}

type statusResponse struct {
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
	Length     uint64 `json:"length"`
	Valid      bool   `json:"valid"`
}

type blockRequest struct {
	Data string `json:"data"`
}

// New returns an HTTP server serving the ledger API on addr.
func New(ledger *chain.Ledger, addr string) *http.Server {
	return &http.Server{Addr: addr, Handler: NewRouter(ledger)}
}

// NewRouter builds the API routes for the given ledger.
func NewRouter(ledger *chain.Ledger) http.Handler {
	s := &Server{ledger: ledger}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/blocks", s.handleListBlocks).Methods(http.MethodGet)
	r.HandleFunc("/blocks", s.handleAppendBlock).Methods(http.MethodPost)
	r.HandleFunc("/blocks/{index}", s.handleGetBlock).Methods(http.MethodGet)
	r.HandleFunc("/mine", s.handlePreviewMine).Methods(http.MethodPost)
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	length, err := s.ledger.Length(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	result, err := s.ledger.Validate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Name:       "monochain",
		Difficulty: s.ledger.Difficulty(),
		Length:     length,
		Valid:      result.Valid,
	})
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.ledger.ListBlocks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseInt(mux.Vars(r)["index"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid block index"))
		return
	}

	b, err := s.ledger.GetBlock(r.Context(), index)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleAppendBlock(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBlockRequest(w, r)
	if !ok {
		return
	}

	b, err := s.ledger.Append(r.Context(), []byte(req.Data))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handlePreviewMine(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBlockRequest(w, r)
	if !ok {
		return
	}

	b, err := s.ledger.PreviewMine(r.Context(), []byte(req.Data))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func decodeBlockRequest(w http.ResponseWriter, r *http.Request) (blockRequest, bool) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
