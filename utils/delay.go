package utils

import (
	"math/rand"
	"time"
)

// RandomDelayDuration picks a whole-second duration in [minSec, maxSec].
func RandomDelayDuration(minSec, maxSec int) time.Duration {
	if maxSec <= minSec {
		return time.Duration(minSec) * time.Second
	}
	return time.Duration(minSec+rand.Intn(maxSec-minSec+1)) * time.Second
}

// RandomDelay sleeps for a randomized interval between navigations so the
// crawl's request pattern does not look machine-generated.
func RandomDelay(minSec, maxSec int) {
	time.Sleep(RandomDelayDuration(minSec, maxSec))
}
