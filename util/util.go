package util

import (
	"strconv"
	"time"
)

// returns the timestamp (UNIX milliseconds)
func Time() uint64 {
	return uint64(time.Now().UnixMilli())
}

func FormatInt[V int | int64 | int32 | int16 | int8](n V) string {
	return strconv.FormatInt(int64(n), 10)
}
func FormatUint[V uint | uint8 | uint16 | uint32 | uint64](n V) string {
	return strconv.FormatUint(uint64(n), 10)
}

// truncates an identity or txid for log output
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
