package transport

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

func decodeHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	return b, nil
}

func parseHash(field, s string) (chainhash.Hash, error) {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("decode %s: %w", field, err)
	}
	return *hash, nil
}

func (h *Handler) submitHeader(w http.ResponseWriter, r *http.Request) {
	var req HeaderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	raw, err := decodeHex("header", req.Header)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	out, err := h.bridge.SubmitHeader(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, headerResponseDTO(out))
}

func (h *Handler) headerStatus(w http.ResponseWriter, r *http.Request) {
	hash, err := parseHash("hash", r.PathValue("hash"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	info, onMain, err := h.bridge.HeaderStatus(r.Context(), hash)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	raw, err := model.SerializeHeader(&info.Header)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, HeaderStatus{
		Hash:      hash.String(),
		Height:    info.Height,
		MainChain: onMain,
		Header:    hex.EncodeToString(raw),
	})
}

func (h *Handler) submitTransaction(w http.ResponseWriter, r *http.Request) {
	var req RelayTxRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	rt, err := relayTx(req)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	out, err := h.bridge.SubmitTransaction(r.Context(), rt)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, txOutcomeDTO(out))
}

func relayTx(req RelayTxRequest) (model.RelayTx, error) {
	var (
		rt  model.RelayTx
		err error
	)
	if rt.Tx, err = decodeHex("tx", req.Tx); err != nil {
		return rt, err
	}
	if rt.BlockHash, err = parseHash("block_hash", req.BlockHash); err != nil {
		return rt, err
	}
	if rt.Proof, err = decodeHex("proof", req.Proof); err != nil {
		return rt, err
	}
	if req.PrevTx != "" {
		if rt.PrevTx, err = decodeHex("prev_tx", req.PrevTx); err != nil {
			return rt, err
		}
	}
	return rt, nil
}

func (h *Handler) txState(w http.ResponseWriter, r *http.Request) {
	txid, err := parseHash("txid", r.PathValue("txid"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	state, err := h.bridge.TxState(r.Context(), txid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, TxState{Type: state.Type.String(), Result: state.Result.String()})
}

func (h *Handler) chain(w http.ResponseWriter, r *http.Request) {
	status, err := h.bridge.Chain(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ChainStatus{
		Best:      headerIndexDTO(status.Best),
		Confirmed: optionalHeaderIndexDTO(status.Confirmed),
	})
}

func (h *Handler) params(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, paramsDTO(h.bridge.Params()))
}
