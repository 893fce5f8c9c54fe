package document

import "time"

// Clock supplies timestamps for document metadata.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface. A nil ClockFunc falls
// back to the current UTC time.
type ClockFunc func() time.Time

// Now returns the current time in UTC.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}
