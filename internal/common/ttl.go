// Package common provides shared utilities for the risk API service
package common

import "time"

// Cache TTLs per data type. Derived and bulk data turns over quickly,
// static metadata lasts longer.
const (
	TTLTickerInfo     = 1 * time.Hour   // metadata changes rarely within a session
	TTLHistorical     = 5 * time.Minute // derived series data
	TTLBulkHistorical = 5 * time.Minute
	TTLSearch         = 1 * time.Hour
	TTLLatestPrice    = 5 * time.Minute
	TTLNotFound       = 5 * time.Minute // negative-result sentinel, rate-limits repeat misses
)
