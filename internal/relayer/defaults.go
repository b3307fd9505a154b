package relayer

import "time"

const (
	defaultWorkerCount       = 8
	defaultMaxHeadersPerPoll = 2000
	defaultMaxBlocksPerPoll  = 50
	defaultMaxReorgDepth     = 144

	sleepDuration     = 5 * time.Second
	longSleepDuration = 30 * time.Second

	rpcAttempts = 5
	rpcDelay    = 400 * time.Millisecond
)
