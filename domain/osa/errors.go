package osa

import (
	"errors"
	"fmt"
)

// ErrFetch marks every upstream fetch failure.
var ErrFetch = errors.New("fetch failed")

// FetchError describes a failed upstream call. StatusCode is 0 for transport errors.
type FetchError struct {
	Resource   string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s returned %d: %s", e.Resource, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
