package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

func (h *Handler) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	if req.Requester.IsZero() {
		h.badRequest(w, errors.New("requester is required"))
		return
	}
	rec, err := h.bridge.RequestWithdrawal(r.Context(), req.Requester, req.Destination, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, withdrawalDTO(rec))
}

func (h *Handler) withdrawals(w http.ResponseWriter, r *http.Request) {
	recs, err := h.bridge.Withdrawals(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := withdrawalsDTO(recs)
	if out == nil {
		out = []*Withdrawal{}
	}
	h.writeJSON(w, http.StatusOK, out)
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode id: %w", err)
	}
	return id, nil
}

func (h *Handler) withdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	rec, err := h.bridge.Withdrawal(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, withdrawalDTO(rec))
}

func (h *Handler) pendingDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.bridge.PendingDeposits(r.Context(), r.PathValue("address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pendingDepositsDTO(deposits))
}

func (h *Handler) proposal(w http.ResponseWriter, r *http.Request) {
	p, err := h.bridge.Proposal(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if p == nil {
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no withdrawal proposal", Category: "not_found"})
		return
	}
	out, err := proposalDTO(p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createProposal(w http.ResponseWriter, r *http.Request) {
	var req ProposerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	p, err := h.bridge.CreateProposal(r.Context(), req.Proposer)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := proposalDTO(p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) signProposal(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	sigs := make([][]byte, 0, len(req.Signatures))
	for i, s := range req.Signatures {
		sig, err := decodeHex(fmt.Sprintf("signatures[%d]", i), s)
		if err != nil {
			h.badRequest(w, err)
			return
		}
		sigs = append(sigs, sig)
	}
	res, err := h.bridge.SignProposal(r.Context(), req.Trustee, sigs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := voteResultDTO(res)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) rejectProposal(w http.ResponseWriter, r *http.Request) {
	var req RejectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	res, err := h.bridge.RejectProposal(r.Context(), req.Trustee)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := voteResultDTO(res)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) markBroadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	txid, err := parseHash("txid", req.TxID)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	recs, err := h.bridge.MarkBroadcast(r.Context(), txid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, withdrawalsDTO(recs))
}
