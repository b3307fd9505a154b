// Package transport exposes the bridge over HTTP/JSON.
package transport

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

const maxBodyBytes = 4 << 20

// Handler serves the bridge API.
type Handler struct {
	bridge     Bridge
	events     EventReader
	network    model.Network
	adminToken string
	logger     *zap.Logger
}

// NewHandler builds a Handler. events may be nil, which disables the event
// routes. An empty adminToken disables the admin routes.
func NewHandler(bridge Bridge, events EventReader, network model.Network, adminToken string, logger *zap.Logger) (*Handler, error) {
	if bridge == nil {
		return nil, errors.New("bridge is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Handler{
		bridge:     bridge,
		events:     events,
		network:    network,
		adminToken: adminToken,
		logger:     logger.Named("http").With(zap.String("network", string(network))),
	}, nil
}

// Routes returns the API wrapped with CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", h.health)

	mux.HandleFunc("POST /v1/headers", h.submitHeader)
	mux.HandleFunc("GET /v1/headers/{hash}", h.headerStatus)
	mux.HandleFunc("POST /v1/transactions", h.submitTransaction)
	mux.HandleFunc("GET /v1/transactions/{txid}", h.txState)
	mux.HandleFunc("GET /v1/chain", h.chain)
	mux.HandleFunc("GET /v1/params", h.params)

	mux.HandleFunc("POST /v1/withdrawals", h.requestWithdrawal)
	mux.HandleFunc("GET /v1/withdrawals", h.withdrawals)
	mux.HandleFunc("GET /v1/withdrawals/{id}", h.withdrawal)
	mux.HandleFunc("GET /v1/deposits/pending/{address}", h.pendingDeposits)

	mux.HandleFunc("GET /v1/proposal", h.proposal)
	mux.HandleFunc("POST /v1/proposal", h.createProposal)
	mux.HandleFunc("POST /v1/proposal/sign", h.signProposal)
	mux.HandleFunc("POST /v1/proposal/reject", h.rejectProposal)
	mux.HandleFunc("POST /v1/proposal/broadcast", h.markBroadcast)

	mux.HandleFunc("GET /v1/trustees", h.trustees)
	mux.HandleFunc("GET /v1/trustees/sessions/{number}", h.session)
	mux.HandleFunc("POST /v1/trustees/intention", h.setIntention)

	if h.events != nil {
		mux.HandleFunc("GET /v1/events", h.recentEvents)
	}

	if h.adminToken != "" {
		mux.Handle("POST /v1/admin/elect", h.admin(h.elect))
		mux.Handle("POST /v1/admin/force-elect", h.admin(h.forceElect))
		mux.Handle("POST /v1/admin/penalty", h.admin(h.setPenalty))
		mux.Handle("POST /v1/admin/trustees/resolve-stall", h.admin(h.resolveStall))
		mux.Handle("POST /v1/admin/trustees/sessions/{number}/signature-records", h.admin(h.consumeSignatureRecords))
		mux.Handle("DELETE /v1/admin/withdrawals/{id}", h.admin(h.removePending))
		mux.Handle("POST /v1/admin/deposits/pending/remove", h.admin(h.removePendingDeposit))
		mux.Handle("DELETE /v1/admin/proposal", h.admin(h.removeProposal))
		mux.Handle("POST /v1/admin/proposal/replace", h.admin(h.replaceProposalTx))
		mux.Handle("PATCH /v1/admin/params", h.admin(h.updateParams))
	}

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(h.logRequests(mux))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "network": string(h.network)})
}

func (h *Handler) admin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			h.writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Category: "auth"})
			return
		}
		next(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(started)),
		)
	})
}

// statusFor maps bridge errors to HTTP statuses by category.
func statusFor(err error) int {
	if errors.Is(err, model.ErrNotFound) {
		return http.StatusNotFound
	}
	switch model.Category(err) {
	case model.CategoryMalformed:
		return http.StatusBadRequest
	case model.CategoryProtocol:
		return http.StatusUnprocessableEntity
	case model.CategoryConsistency:
		return http.StatusConflict
	case model.CategoryFatal:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	category := string(model.Category(err))
	if status == http.StatusNotFound {
		category = "not_found"
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error(), Category: category})
}

// badRequest reports a request that could not be decoded.
func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Category: string(model.CategoryMalformed)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response failed", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}
