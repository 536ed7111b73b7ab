package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ratio lets num out of every den events through. A zero ratio disables sampling.
type ratio struct {
	num, den uint64
}

// ratioSampler is a deterministic counter-based sampler, safe for concurrent use.
type ratioSampler struct {
	r    atomic.Pointer[ratio]
	seen atomic.Uint64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the cycle.
func (s *ratioSampler) Set(num, den int) {
	r := &ratio{}
	if num > 0 && den > 0 {
		r.num, r.den = uint64(min(num, den)), uint64(den)
	}
	s.r.Store(r)
	s.seen.Store(0)
}

// Allow passes the first num events of each cycle of den.
func (s *ratioSampler) Allow() bool {
	r := s.r.Load()
	if r == nil || r.den == 0 {
		return true
	}
	n := s.seen.Add(1) - 1
	return n%r.den < r.num
}

// parseRatioSpec accepts "N" (one in N) or "num/den". Anything else disables sampling.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if a, b, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(a))
		den, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil {
			return 0, 0
		}
		return num, den
	}
	n, err := strconv.Atoi(spec)
	if err != nil || n <= 0 {
		return 0, 0
	}
	return 1, n
}
