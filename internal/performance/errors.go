package performance

import "errors"

var (
	// ErrRateLimited is returned when the upstream limiter denies a call and
	// no stored data can stand in.
	ErrRateLimited = errors.New("upstream rate limit reached, try again later")
	// ErrNoData means neither the upstream nor the local store has rows.
	ErrNoData = errors.New("no performance data available")
	// ErrInvalidQuery wraps validation failures of a Query.
	ErrInvalidQuery = errors.New("invalid query")
)
