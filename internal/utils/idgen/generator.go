// Package idgen produces names for call rooms.
package idgen

import (
	"fmt"
	"time"
)

// TimestampedName returns "<prefix>-<unix-ms>". Call room names use this so
// that every connect attempt lands in a fresh room.
func TimestampedName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixMilli())
}
