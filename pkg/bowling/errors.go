package bowling

import "errors"

var (
	ErrInvalidThrow    = errors.New("invalid throw")
	ErrThrowsExceeded  = errors.New("no throws left in frame 10")
	ErrPrematureScore  = errors.New("score not yet available")
	ErrFrameOutOfRange = errors.New("frame number must be between 1 and 10")
	ErrFrameNotStarted = errors.New("frame not started")
)
