package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

const insertEventsQuery = `
INSERT INTO bridge_events (
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
) VALUES`

// InsertEvents appends events to the event log.
func (r *Repository) InsertEvents(ctx context.Context, events []model.Event) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_events", firstNetwork(events), len(events), err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare events batch: %w", err)
	}

	for _, ev := range events {
		if err = batch.Append(
			string(ev.Network),
			string(ev.Type),
			ev.Height,
			ev.BlockHash,
			ev.TxID,
			ev.Account,
			ev.Address,
			ev.WithdrawalID,
			ev.Amount,
			ev.Session,
			ev.Detail,
			ev.At,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append event: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	return nil
}

func firstNetwork(events []model.Event) model.Network {
	if len(events) == 0 {
		return ""
	}
	return events[0].Network
}
