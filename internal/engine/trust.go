package engine

import "sync"

// NextTrustScore folds one more integrity score into a source's trust score
// as an incremental cumulative mean:
//
//	next = (current*analyzed + score) / (analyzed + 1)
//
// With analyzed = 0 the current value is ignored entirely, so a source's
// first analyzed article sets its trust outright. The function is pure and
// does no clamping; scores reach it already clamped into [1,10] by the
// analyzer, which keeps the mean inside the same range.
func NextTrustScore(current float64, analyzed int, score float64) float64 {
	return (current*float64(analyzed) + score) / float64(analyzed+1)
}

// keyedMutex provides one mutex per string key, so trust updates for the
// same source serialize while different sources proceed in parallel. Locks
// are never released from the map; the key space is bounded by the number of
// distinct publishers.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
