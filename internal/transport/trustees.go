package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

func (h *Handler) trustees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, err := h.bridge.CurrentSession(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	previous, err := h.bridge.PreviousSession(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	transition, err := h.bridge.Transition(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, TrusteesResponse{
		Current:    sessionDTO(current),
		Previous:   sessionDTO(previous),
		Transition: transitionDTO(transition),
	})
}

func parseSessionNumber(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("decode session number: %w", err)
	}
	return uint32(n), nil
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	number, err := parseSessionNumber(r.PathValue("number"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	s, err := h.bridge.Session(r.Context(), number)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionDTO(s))
}

func (h *Handler) setIntention(w http.ResponseWriter, r *http.Request) {
	var req IntentionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	hot, err := decodeHex("hot_pubkey", req.HotPubKey)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	cold, err := decodeHex("cold_pubkey", req.ColdPubKey)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	err = h.bridge.SetTrusteeIntention(r.Context(), req.Account, model.TrusteeIntentionProps{
		About:      req.About,
		HotPubKey:  hot,
		ColdPubKey: cold,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recentEvents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 1000 {
			h.badRequest(w, fmt.Errorf("limit must be in [1, 1000], got %q", s))
			return
		}
		limit = n
	}
	events, err := h.events.RecentEvents(r.Context(), h.network, model.EventType(r.URL.Query().Get("type")), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		out = append(out, eventDTO(ev))
	}
	h.writeJSON(w, http.StatusOK, out)
}
