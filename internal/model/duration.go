package model

import (
	"math"
	"time"
)

// DurationSec returns floor((end - start) / 1s), or nil unless both bounds are set.
// Negative results are kept: an end before the start is stored as is.
func DurationSec(start, end *time.Time) *int64 {
	if start == nil || end == nil {
		return nil
	}
	sec := int64(math.Floor(end.Sub(*start).Seconds()))
	return &sec
}

// OverlapSec returns the whole seconds two intervals share, never negative.
func OverlapSec(startA, endA, startB, endB time.Time) int64 {
	lo := startA
	if startB.After(lo) {
		lo = startB
	}
	hi := endA
	if endB.Before(hi) {
		hi = endB
	}
	if !hi.After(lo) {
		return 0
	}
	return int64(math.Floor(hi.Sub(lo).Seconds()))
}
