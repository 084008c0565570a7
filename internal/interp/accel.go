package interp

// Accel caches the last grid interval hit by a lookup, so that neighbouring
// queries skip the binary search. One accelerator may be shared by any
// number of splines built on the same abscissa; it must not be shared
// across goroutines.
type Accel struct {
	cur    int
	hits   uint64
	misses uint64
}

// NewAccel returns an accelerator with an empty cache.
func NewAccel() *Accel {
	return &Accel{}
}

// Find returns i such that xa[i] <= x < xa[i+1], clamped to the end
// intervals for out-of-range x. The cached interval is confirmed in O(1);
// on a cache miss a binary search runs and the cache is updated.
func (a *Accel) Find(xa []float64, x float64) int {
	n := len(xa)
	if a.cur > n-2 {
		a.cur = 0
	}
	if x >= xa[a.cur] && (x < xa[a.cur+1] || (a.cur == n-2 && x <= xa[n-1])) {
		a.hits++
		return a.cur
	}
	a.misses++
	a.cur = searchInterval(xa, x)
	return a.cur
}

// Reset clears the cached interval and the counters.
func (a *Accel) Reset() {
	a.cur = 0
	a.hits = 0
	a.misses = 0
}

// Hits reports how many lookups were answered from the cache.
func (a *Accel) Hits() uint64 { return a.hits }

// Misses reports how many lookups fell back to a binary search.
func (a *Accel) Misses() uint64 { return a.misses }

// searchInterval binary-searches for i with xa[i] <= x < xa[i+1].
func searchInterval(xa []float64, x float64) int {
	n := len(xa)
	if x <= xa[0] {
		return 0
	}
	if x >= xa[n-1] {
		return n - 2
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < xa[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// findInterval uses acc when non-nil and a plain search otherwise.
func findInterval(xa []float64, x float64, acc *Accel) int {
	if acc != nil {
		return acc.Find(xa, x)
	}
	return searchInterval(xa, x)
}
