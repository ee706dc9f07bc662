package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// MustParseUint returns 0 when s is not an unsigned integer.
func MustParseUint(s string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}

// StringValue renders an answer value the way it is stored in answers.value.
// Times are stored as RFC 3339.
func StringValue(v interface{}) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.Format(time.RFC3339), nil
	}
	return cast.ToStringE(v)
}
