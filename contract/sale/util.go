package sale

import "strconv"

// UInt64ToString turns an id into decimal text for token ids and events.
func UInt64ToString(val uint64) string {
	return strconv.FormatUint(val, 10)
}
