package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// RecentEvents returns the newest events of a network, newest first. An
// empty eventType matches every type.
func (r *Repository) RecentEvents(ctx context.Context, network model.Network, eventType model.EventType, limit int) (events []model.Event, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("recent_events", network, len(events), err, start)
	}()

	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	const query = `
SELECT
	network,
	type,
	height,
	block_hash,
	txid,
	account,
	address,
	withdrawal_id,
	amount,
	session,
	detail,
	at
FROM bridge_events
WHERE network = ? AND (? = '' OR type = ?)
ORDER BY at DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, string(network), string(eventType), string(eventType), uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			ev       model.Event
			net, typ string
		)
		if err = rows.Scan(
			&net,
			&typ,
			&ev.Height,
			&ev.BlockHash,
			&ev.TxID,
			&ev.Account,
			&ev.Address,
			&ev.WithdrawalID,
			&ev.Amount,
			&ev.Session,
			&ev.Detail,
			&ev.At,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Network = model.Network(net)
		ev.Type = model.EventType(typ)
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
