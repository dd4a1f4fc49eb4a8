package gateway

import (
	"errors"
	"fmt"

	"github.com/keyfleet/keyfleet/internal/catalog"
)

// ExhaustedError is returned when every candidate in a fallback group has
// been tried or skipped without producing a response. It carries the last
// underlying failure for diagnosability.
type ExhaustedError struct {
	Group   string
	LastErr error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr == nil {
		return fmt.Sprintf("no model in group %q produced a response", e.Group)
	}
	return fmt.Sprintf("no model in group %q produced a response, last error: %v", e.Group, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

// IsExhausted reports whether err is an ExhaustedError.
func IsExhausted(err error) bool {
	var e *ExhaustedError
	return errors.As(err, &e)
}

// IsUnknownGroup reports whether err is a catalog.UnknownGroupError.
func IsUnknownGroup(err error) bool {
	var e *catalog.UnknownGroupError
	return errors.As(err, &e)
}
