package auth

import "time"

// Clock abstracts time so cooldowns, daily windows and expiries are
// testable without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return realClock{} }
