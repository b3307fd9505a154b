//go:build !zmq

package main

import (
	"context"

	"go.uber.org/zap"
)

// startBlockSignal without zmq support leaves the relayer on polling.
func startBlockSignal(_ context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr != "" {
		logger.Warn("zmq address ignored, build with -tags zmq to enable block notifications", zap.String("addr", addr))
	}
	return nil, nil
}
