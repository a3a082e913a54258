package timefmt

import (
	"fmt"
	"time"
)

// HMS formats a duration as HH:MM:SS, truncating sub-second precision.
// Hours grow past two digits rather than wrapping.
func HMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
