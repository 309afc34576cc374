package aggregator

import "errors"

// ErrUnknownWeekStart is returned by ParseWeekStart for anything other
// than "monday" or "sunday".
var ErrUnknownWeekStart = errors.New("unknown week start")
