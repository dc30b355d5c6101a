// Package singleinstance ensures that only one instance of a program runs at a time.
package singleinstance

import (
	"errors"
	"fmt"
	"time"

	"github.com/juju/mutex/v2"
)

const retryDelay = 50 * time.Millisecond

var ErrAlreadyRunning = errors.New("another instance is already running")

// wallClock implements the clock needed by [mutex.Spec].
type wallClock struct{}

func (wallClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (wallClock) Now() time.Time {
	return time.Now()
}

// Acquire acquires a system wide lock for name.
// It waits up to timeout for another instance to release the lock
// and returns [ErrAlreadyRunning] when it could not be acquired.
// The returned function releases the lock.
func Acquire(name string, timeout time.Duration) (release func(), err error) {
	r, err := mutex.Acquire(mutex.Spec{
		Name:    name,
		Clock:   wallClock{},
		Delay:   retryDelay,
		Timeout: timeout,
	})
	if errors.Is(err, mutex.ErrTimeout) {
		return nil, ErrAlreadyRunning
	} else if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return r.Release, nil
}
