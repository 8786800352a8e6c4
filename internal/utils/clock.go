package utils

import "time"

// Now returns the current UTC time truncated to the microsecond precision
// Postgres stores, so values round-trip through the database unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
