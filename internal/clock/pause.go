// Package clock paces the relay loop between polls of the Bitcoin node.
package clock

import (
	"context"
	"time"
)

// Wake tells what ended a Pause.
type Wake int

const (
	// Elapsed means the pause ran its full length.
	Elapsed Wake = iota
	// NewBlock means the node announced a block before the pause ended.
	NewBlock
)

func (w Wake) String() string {
	if w == NewBlock {
		return "new_block"
	}
	return "elapsed"
}

// Pause holds the relay loop for d. A value on blocks cuts it short with
// NewBlock; a nil channel never does. A done ctx returns its error.
func Pause(ctx context.Context, d time.Duration, blocks <-chan struct{}) (Wake, error) {
	if d <= 0 {
		return Elapsed, ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Elapsed, ctx.Err()
	case <-blocks:
		return NewBlock, nil
	case <-timer.C:
		return Elapsed, nil
	}
}
