package redis

import "errors"

var (
	ErrEmptyConnectionURL    = errors.New("empty redis connection URL, use REDIS_URL env var")
	ErrFailedToParseConnURL  = errors.New("failed to parse redis connection URL")
	ErrNotReadyWithinTimeout = errors.New("redis did not become ready within the connect timeout")
	ErrHealthcheckFailed     = errors.New("redis healthcheck failed")
)
