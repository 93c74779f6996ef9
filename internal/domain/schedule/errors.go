package schedule

import "errors"

var (
	ErrInvalidTemplate     = errors.New("template must have start < end and a duration that fits the window")
	ErrTemplateOverlap     = errors.New("template overlaps another active template on the same weekday")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrDateAlreadyBlocked  = errors.New("date is already blocked")
	ErrBlockedDateNotFound = errors.New("blocked date not found")
)
