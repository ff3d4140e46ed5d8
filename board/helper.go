package board

import (
	"fmt"
	"time"
)

func seconds(v uint32) time.Duration {
	return time.Duration(v) * time.Second
}

// FormatDuration renders d as "[N days and ]HH:MM:SS".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	res := ""

	if days := secs / 86400; days > 0 {
		res = fmt.Sprintf("%d days and ", days)
		secs -= days * 86400
	}
	h := secs / 3600
	secs -= h * 3600
	m := secs / 60
	secs -= m * 60

	return res + fmt.Sprintf("%02d:%02d:%02d", h, m, secs)
}

// serialString unpacks the four ASCII characters of the hardware serial,
// most significant byte first.
func serialString(v uint32) string {
	return string([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func isPrint(c byte) bool {
	return c >= 0x20 && c < 0x7f
}
