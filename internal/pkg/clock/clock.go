package clock

import "time"

// Clock supplies the current time. Services take it as a dependency instead
// of calling time.Now so tests can pin the moment.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
