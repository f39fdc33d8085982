// Package display formats sizes, durations and batch positions for the
// console, and prints the banner.
package display

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

var binaryUnits = [...]string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes renders n with binary units and one decimal: "512 B",
// "1.5 KiB", "700.0 MiB".
func FormatBytes(n int64) string {
	if n > -1024 && n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}
	v, i := float64(n)/1024, 0
	for math.Abs(v) >= 1024 && i < len(binaryUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, binaryUnits[i])
}

// FormatBytesWithSign renders a size delta: "+ 1.0 MiB", "- 12 B", "0 B".
func FormatBytesWithSign(n int64) string {
	switch {
	case n > 0:
		return "+ " + FormatBytes(n)
	case n < 0:
		return "- " + FormatBytes(-n)
	}
	return FormatBytes(0)
}

// FormatElapsed renders d as "850ms", "4.2s" or "3m07s".
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm%02ds", int(d/time.Minute), int(d%time.Minute/time.Second))
}

// FormatCounter renders a batch position as "[007/120]". Both numbers are
// zero-padded to at least three digits, wider when total needs it.
func FormatCounter(current, total int) string {
	width := len(strconv.Itoa(total))
	if width < 3 {
		width = 3
	}
	return fmt.Sprintf("[%0*d/%0*d]", width, current, width, total)
}
