package relayer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/transport"
)

// APIError is a non-2xx answer from the bridge daemon.
type APIError struct {
	Status   int
	Category string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bridge api: %d %s: %s", e.Status, e.Category, e.Message)
}

// Rejected reports whether the bridge refused the request itself, as
// opposed to failing to serve it.
func (e *APIError) Rejected() bool {
	return e.Status >= 400 && e.Status < 500
}

// HTTPBridge talks to the bridge daemon API.
type HTTPBridge struct {
	client *resty.Client
}

// NewHTTPBridge builds a client for the daemon at baseURL.
func NewHTTPBridge(baseURL string, timeout time.Duration) (*HTTPBridge, error) {
	if baseURL == "" {
		return nil, errors.New("bridge url is required")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &HTTPBridge{client: client}, nil
}

func (b *HTTPBridge) do(ctx context.Context, method, path string, body, result any) error {
	var apiErr transport.ErrorResponse
	req := b.client.R().SetContext(ctx).SetError(&apiErr)
	if result != nil {
		req.SetResult(result)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Category: apiErr.Category, Message: apiErr.Error}
	}
	return nil
}

func (b *HTTPBridge) Chain(ctx context.Context) (*transport.ChainStatus, error) {
	var out transport.ChainStatus
	if err := b.do(ctx, http.MethodGet, "/v1/chain", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBridge) HeaderStatus(ctx context.Context, hash chainhash.Hash) (*transport.HeaderStatus, error) {
	var out transport.HeaderStatus
	err := b.do(ctx, http.MethodGet, "/v1/headers/"+hash.String(), nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBridge) Trustees(ctx context.Context) (*transport.TrusteesResponse, error) {
	var out transport.TrusteesResponse
	if err := b.do(ctx, http.MethodGet, "/v1/trustees", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBridge) SubmitHeader(ctx context.Context, raw []byte) (*transport.HeaderResponse, error) {
	var out transport.HeaderResponse
	body := transport.HeaderRequest{Header: hexString(raw)}
	if err := b.do(ctx, http.MethodPost, "/v1/headers", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBridge) SubmitTransaction(ctx context.Context, req transport.RelayTxRequest) (*transport.TxOutcome, error) {
	var out transport.TxOutcome
	if err := b.do(ctx, http.MethodPost, "/v1/transactions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
