package attendance

import "errors"

var (
	ErrDayNotFound = errors.New("attendance day not found")
)
