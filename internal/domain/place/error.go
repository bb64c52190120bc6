package place

import "errors"

var (
	ErrDuplicate      = errors.New("place already saved")
	ErrNotFound       = errors.New("saved place not found")
	ErrInvalidPayload = errors.New("invalid place payload")
)
