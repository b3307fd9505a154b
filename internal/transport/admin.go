package transport

import (
	"errors"
	"net/http"
)

func (h *Handler) elect(w http.ResponseWriter, r *http.Request) {
	s, err := h.bridge.Elect(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionDTO(s))
}

func (h *Handler) forceElect(w http.ResponseWriter, r *http.Request) {
	var req ForceElectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	s, err := h.bridge.ForceElect(r.Context(), req.Accounts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionDTO(s))
}

func (h *Handler) setPenalty(w http.ResponseWriter, r *http.Request) {
	var req PenaltyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	if err := h.bridge.SetPenalty(r.Context(), req.Account, req.In); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolveStall(w http.ResponseWriter, r *http.Request) {
	status, err := h.bridge.ResolveStall(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, transitionDTO(status))
}

func (h *Handler) consumeSignatureRecords(w http.ResponseWriter, r *http.Request) {
	number, err := parseSessionNumber(r.PathValue("number"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	records, err := h.bridge.ConsumeSignatureRecords(r.Context(), number)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, signatureRecordsDTO(records))
}

func (h *Handler) removePending(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	rec, err := h.bridge.RemovePending(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, withdrawalDTO(rec))
}

func (h *Handler) removePendingDeposit(w http.ResponseWriter, r *http.Request) {
	var req RemovePendingDepositRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	if req.Address == "" {
		h.badRequest(w, errors.New("address is required"))
		return
	}
	removed, err := h.bridge.RemovePendingDeposit(r.Context(), req.Address, req.Account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pendingDepositsDTO(removed))
}

func (h *Handler) removeProposal(w http.ResponseWriter, r *http.Request) {
	recs, err := h.bridge.RemoveProposal(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, withdrawalsDTO(recs))
}

func (h *Handler) replaceProposalTx(w http.ResponseWriter, r *http.Request) {
	var req ReplaceTxRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	raw, err := decodeHex("tx", req.Tx)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	p, err := h.bridge.ForceReplaceProposalTx(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := proposalDTO(p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

// updateParams applies the set fields one by one and stops at the first
// failure; fields applied before it stay applied.
func (h *Handler) updateParams(w http.ResponseWriter, r *http.Request) {
	var req ParamsUpdate
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	ctx := r.Context()
	var err error
	if req.WithdrawalFee != nil {
		err = h.bridge.SetWithdrawalFee(ctx, *req.WithdrawalFee)
	}
	if err == nil && req.FeeRate != nil {
		err = h.bridge.SetFeeRate(ctx, *req.FeeRate)
	}
	if err == nil && req.MinDeposit != nil {
		err = h.bridge.SetDepositLimit(ctx, *req.MinDeposit)
	}
	if err == nil && req.Confirmations != nil {
		err = h.bridge.SetConfirmations(ctx, *req.Confirmations)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, paramsDTO(h.bridge.Params()))
}
