package util

import (
	"fmt"
	"log"
)

// Log logs a message if verbose is true.
func Log(verbose bool, format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// ProgressDots prints progress dots for a loop walking cur from lo to hi
// inclusive, emitting totalDots dots across the whole range. It is stateless:
// each call prints only the dots newly owed at cur, so interleaved calls from
// multiple workers still produce totalDots dots overall (order may vary).
func ProgressDots(cur, lo, hi, totalDots int) {
	if hi <= lo || totalDots <= 0 || cur < lo || cur > hi {
		return
	}
	span := hi - lo + 1
	before := (cur - lo) * totalDots / span
	after := (cur - lo + 1) * totalDots / span
	for i := before; i < after; i++ {
		fmt.Print(".")
	}
}
