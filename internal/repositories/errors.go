package repositories

import "errors"

// ErrNoMatch is returned by conditional updates (compare-and-set status
// transitions, balance-guarded debits) when no document satisfied the
// filter.
var ErrNoMatch = errors.New("no document matched the conditional update")
