package timeoutq

import "time"

// Clock supplies the current time. Tests inject a fake one to drive expiry
// deterministically.
type Clock interface {
	// Now return the current instant.
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
